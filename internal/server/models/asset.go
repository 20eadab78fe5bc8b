package models

import "time"

// Credentials is the temporary key material of a minted session. Field
// names follow the token service's response casing, which the browser SDK
// consumes as-is.
type Credentials struct {
	AccessKeyId     string    `json:"AccessKeyId"`
	SecretAccessKey string    `json:"SecretAccessKey"`
	SessionToken    string    `json:"SessionToken"`
	Expiration      time.Time `json:"Expiration"`
}

// STSSession wraps the minted credentials the way the token service
// returns them.
type STSSession struct {
	Credentials Credentials `json:"Credentials"`
}

// Asset is a scoped credential shaped for the client: the session keys plus
// the region and bucket the client SDK needs to use them. Minted per
// request and discarded after the response.
type Asset struct {
	STS    STSSession `json:"sts"`
	Region string     `json:"region"`
	Bucket string     `json:"bucket"`

	// Policy is the inline policy document the session was requested
	// with. Kept for logging and tests, never sent to the client.
	Policy string `json:"-"`
}

// PresignedUpload is a single-use upload ticket: the target endpoint and
// the exact form fields (including the pinned object key) a client must
// post. The upload size cap lives in the signed policy conditions.
type PresignedUpload struct {
	URL    string            `json:"url"`
	Fields map[string]string `json:"fields"`
}
