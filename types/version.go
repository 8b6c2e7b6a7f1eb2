package types

// Version is the canonical project version. The CLI and the client
// version reported in request headers share this constant.
const Version = "0.3.0"
