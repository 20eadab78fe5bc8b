package api

// securityHeaders is the fixed CORS/security header set attached to every
// response. The API and the site live on different origins, hence the CORS
// block; the rest hardens whatever the client renders.
func securityHeaders(origin string) map[string]string {
	return map[string]string{
		"Access-Control-Allow-Credentials": "true",
		"Access-Control-Allow-Headers":     "Content-Type,X-Amz-Date,Authorization,X-Api-Key,X-Amz-Security-Token",
		"Access-Control-Allow-Methods":     "GET,OPTIONS,PUT,POST,DELETE",
		"Access-Control-Allow-Origin":      origin,
		"Content-Type":                     "application/json",
		"Strict-Transport-Security":        "max-age=63072000; includeSubdomains; preload",
		"Content-Security-Policy":          "object-src 'self' blob: https:; img-src 'self' blob: https:; script-src 'self' https://sdk.amazonaws.com;  default-src https:;",
		"X-Content-Type-Options":           "nosniff",
		"X-Frame-Options":                  "DENY",
		"X-XSS-Protection":                 "1; mode=block",
	}
}

// blobHeaders is the same set with the binary content type used by blob
// reads.
func blobHeaders(origin string) map[string]string {
	h := securityHeaders(origin)
	h["Content-Type"] = "image/png"
	return h
}
