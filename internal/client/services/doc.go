// Package services wraps the backend endpoints. Every method returns
// canonical records from the models package; raw envelopes never leave this
// package except inside *client.APIError.
package services
