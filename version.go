package uvalign

// Version is the release of the uvalign library and tools.
const Version = "1.3.0"
