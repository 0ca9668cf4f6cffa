// Package release locates the latest published rules bundle and enforces
// that its download URL belongs to the trusted origin.
package release

const (
	// Owner is the GitHub organisation publishing the rules.
	Owner = "awslabs"
	// Repo is the repository publishing the rules.
	Repo = "aidlc-workflows"

	// DefaultAPIURL is the "latest release" metadata endpoint.
	DefaultAPIURL = "https://api.github.com/repos/" + Owner + "/" + Repo + "/releases/latest"
	// TrustedPrefix is the only origin artifact downloads may come from.
	TrustedPrefix = "https://github.com/" + Owner + "/" + Repo + "/"

	// UserAgent identifies this tool to GitHub.
	UserAgent = "aidlc-workflows-helper"
	// AcceptHeader requests the release metadata media type.
	AcceptHeader = "application/vnd.github+json"

	// ArchiveExt is the extension of the distributable asset.
	ArchiveExt = ".zip"
)

// Info identifies one release and its archive download URL.
// AssetURL always starts with the trusted prefix.
type Info struct {
	Tag      string
	AssetURL string
}

// payload is the subset of the GitHub release JSON that is used.
type payload struct {
	TagName string  `json:"tag_name"`
	Assets  []asset `json:"assets"`
}

type asset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
}
