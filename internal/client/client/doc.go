// Package client contains the client side of the wallet service API.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Client interface) covering
//     registration, login, the account profile and the private key and
//     recovery phrase disclosure calls.
//  2. A gRPC implementation (see GRPCClient) that manages the connection,
//     attaches the session token through an interceptor and maps gRPC status
//     codes to sentinel errors.
//
// # Error Handling
//
// Conditions are exposed as sentinel errors that callers can match with
// errors.Is: ErrUnavailable, ErrUnauthorized, ErrForbidden, ErrRejected and
// the shared common.ErrDuplicateAccount, common.ErrorNotFound and
// common.ErrMnemonicNotRetained.
package client
