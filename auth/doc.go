// Package auth holds the token-validation contract used by the HTTP
// middleware and the configuration that enables it. Package auth/jwt
// implements it with HMAC-signed JWTs; auth/authctx carries validated
// claims through a request context.
//
//	auth:
//	  enabled: true
//	  jwt:
//	    secret: "${AUTH_JWT_SECRET}"
//	    issuer: "transcriptiond"
package auth
