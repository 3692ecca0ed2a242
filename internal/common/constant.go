package common

// RequestIDHeaderName is the HTTP header carrying the per-request correlation
// id on outbound coordinator calls.
const RequestIDHeaderName = "X-Request-ID"

// AlgorithmAESGCM is the only envelope algorithm tag the SDK produces or accepts.
const AlgorithmAESGCM = "aes-256-gcm"
