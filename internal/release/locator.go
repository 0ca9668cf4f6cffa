package release

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const schemaURL = "https://github.com/ZebulonRouseFrantzich/aidlc/internal/release/release.schema.json"

// maxBodySize bounds the metadata response.
const maxBodySize = 8 << 20

//go:embed release.schema.json
var schemaData []byte

// Locator queries the release metadata endpoint.
// Transport security (TLS only, timeouts) is the client's responsibility.
type Locator struct {
	Client        *http.Client
	APIURL        string
	TrustedPrefix string
	UserAgent     string
	Logger        *slog.Logger

	schema *jsonschema.Schema
}

// NewLocator returns a Locator for the fixed owner/repository.
func NewLocator(client *http.Client) (*Locator, error) {
	schema, err := compileSchema()
	if err != nil {
		return nil, err
	}

	return &Locator{
		Client:        client,
		APIURL:        DefaultAPIURL,
		TrustedPrefix: TrustedPrefix,
		UserAgent:     UserAgent,
		Logger:        slog.Default(),
		schema:        schema,
	}, nil
}

func compileSchema() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaData))
	if err != nil {
		return nil, fmt.Errorf("unmarshal release schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, doc); err != nil {
		return nil, fmt.Errorf("add release schema: %w", err)
	}

	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile release schema: %w", err)
	}

	return schema, nil
}

// FetchLatest returns the tag and archive URL of the latest release.
func (l *Locator) FetchLatest(ctx context.Context) (*Info, error) {
	body, err := l.get(ctx)
	if err != nil {
		return nil, err
	}

	rel, err := l.decode(body)
	if err != nil {
		return nil, err
	}

	return l.selectAsset(rel)
}

func (l *Locator) get(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.APIURL, nil)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("User-Agent", l.UserAgent)
	req.Header.Set("Accept", AcceptHeader)

	resp, err := l.Client.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{
			Kind:       KindNetwork,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status code: %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Err: fmt.Errorf("read body: %w", err)}
	}

	return body, nil
}

func (l *Locator) decode(body []byte) (*payload, error) {
	if l.schema != nil {
		inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(body))
		if err != nil {
			return nil, &Error{Kind: KindParse, Err: err}
		}
		if err := l.schema.Validate(inst); err != nil {
			return nil, &Error{Kind: KindParse, Err: fmt.Errorf("schema validation: %w", err)}
		}
	}

	var rel payload
	if err := json.Unmarshal(body, &rel); err != nil {
		return nil, &Error{Kind: KindParse, Err: err}
	}

	if !SafeTag(rel.TagName) {
		return nil, &Error{Kind: KindParse, Err: fmt.Errorf("unsafe release tag %q", rel.TagName)}
	}

	return &rel, nil
}

func (l *Locator) selectAsset(rel *payload) (*Info, error) {
	prefix := l.TrustedPrefix
	if prefix == "" {
		prefix = TrustedPrefix
	}

	for _, a := range rel.Assets {
		if !strings.HasSuffix(a.Name, ArchiveExt) {
			continue
		}

		// The prefix check is the supply-chain gate; nothing else in the
		// response can widen it.
		if !strings.HasPrefix(a.BrowserDownloadURL, prefix) {
			return nil, &Error{Kind: KindUntrustedOrigin, URL: a.BrowserDownloadURL, Err: ErrUntrustedOrigin}
		}

		l.logger().Debug("selected release asset",
			slog.String("tag", rel.TagName),
			slog.String("asset", a.Name),
		)

		return &Info{Tag: rel.TagName, AssetURL: a.BrowserDownloadURL}, nil
	}

	return nil, &Error{Kind: KindNoAsset, Err: ErrNoAssetFound}
}

func (l *Locator) logger() *slog.Logger {
	if l.Logger == nil {
		return slog.Default()
	}
	return l.Logger
}

// SafeTag reports whether tag can be used as a single path component.
func SafeTag(tag string) bool {
	if tag == "" || tag == "." || tag == ".." {
		return false
	}
	return !strings.ContainsAny(tag, "/\\\x00")
}
