// Package accounts implements the account and session core of the ShipNLogic
// logistics platform: dual-token JWT authentication, credential handling, and
// the persistence layer around users, admins, and their platform records.
//
// Token lifecycle:
//   - TokenService signs and verifies access and refresh JWTs. Subjects encode
//     both the principal kind and id ("USER-42", "ADMIN-7"), so a token minted
//     for one account table never resolves against the other.
//   - Refresh tokens are stateful: each issued token is persisted and stays
//     usable only while its row exists. Logout revokes every session of a
//     principal by bulk delete. Refreshing mints a new access token without
//     rotating the refresh token.
//
// Principals:
//   - Users and admins live in separate tables with separate repositories.
//     PrincipalStore dispatches on the kind and projects both models onto the
//     Principal view the auth core operates on.
//
// Commands:
//   - Registration and password reset flows are modeled as message/handler
//     pairs (Execute(ctx, msg)) with validation on the message and best-effort
//     notification delivery on success.
package accounts
