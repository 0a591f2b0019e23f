package types

// Version is the canonical project version.
// All components (CLI, cache snapshot format, report layout) share this
// version per the lockstep versioning policy.
const Version = "0.2.0"
