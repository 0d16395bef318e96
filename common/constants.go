package common

// ToolVersion is the current version of the compiler front-end.
const ToolVersion = "0.9.5"
