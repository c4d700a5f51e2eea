package version

// Version is the SDK version. It is overridden at build time with
// -ldflags "-X github.com/cloudinary/media-management-go/internal/version.Version=...".
var Version = "0.1.0"
