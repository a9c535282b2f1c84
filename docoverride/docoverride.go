// Package docoverride implements the doc-override workflow (spec.md
// section 6, supplemented in SPEC_FULL.md section 4.10): a stable 32-bit
// fingerprint per endpoint, and an on-disk override file format the
// compiler consults to replace an endpoint's default description before
// the endpoint emitter runs.
package docoverride

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// emptyPlaceholder is the sentinel marking an override block as
// deliberately blank (spec.md section 6).
const emptyPlaceholder = "<!-- Empty - no override -->"

// Hash computes the stable, non-cryptographic 32-bit fingerprint over an
// endpoint's identifying fields, formatted in hex (spec.md section 6:
// "used only for change detection; no cryptographic properties
// required" — fnv.New32a is exactly that kind of hash, the same role
// hash/fnv plays wherever a corpus library wants a cheap non-crypto
// checksum rather than reaching for crypto/sha256).
func Hash(path, method, operationID, summary, description string) string {
	h := fnv.New32a()
	fmt.Fprintf(h, "%s\x00%s\x00%s\x00%s\x00%s", path, method, operationID, summary, description)
	return fmt.Sprintf("%08x", h.Sum32())
}

// Frontmatter is the `---`-delimited YAML header of an override file.
type Frontmatter struct {
	Endpoint    string `yaml:"endpoint"`
	Method      string `yaml:"method"`
	Hash        string `yaml:"hash"`
	Host        string `yaml:"host,omitempty"`
	Version     string `yaml:"version,omitempty"`
	OperationID string `yaml:"operationId,omitempty"`
}

// File is one parsed override file: its frontmatter plus the default and
// override description sections.
type File struct {
	Frontmatter        Frontmatter
	DefaultDescription string
	Override           string
}

// HasOverride reports whether File carries a non-empty override that
// differs from the placeholder, i.e. whether it should actually replace
// the endpoint's default description.
func (f File) HasOverride() bool {
	trimmed := strings.TrimSpace(f.Override)
	return trimmed != "" && trimmed != emptyPlaceholder
}

// Parse reads one override file's contents. The expected shape is a
// `---`-delimited YAML frontmatter block, a `## Default Description`
// section, and a `## Override` section whose body is a single fenced code
// block.
func Parse(data []byte) (*File, error) {
	text := string(data)

	frontmatterBody, rest, err := splitFrontmatter(text)
	if err != nil {
		return nil, err
	}

	var fm Frontmatter
	if err := yaml.Unmarshal([]byte(frontmatterBody), &fm); err != nil {
		return nil, errors.Wrap(err, "docoverride: parsing frontmatter")
	}

	defaultDesc, err := extractSection(rest, "## Default Description", "## Override")
	if err != nil {
		return nil, err
	}
	overrideSection, err := extractSection(rest, "## Override", "")
	if err != nil {
		return nil, err
	}

	return &File{
		Frontmatter:        fm,
		DefaultDescription: strings.TrimSpace(defaultDesc),
		Override:           strings.TrimSpace(stripFence(overrideSection)),
	}, nil
}

func splitFrontmatter(text string) (frontmatter, rest string, err error) {
	trimmed := strings.TrimPrefix(text, "\n")
	if !strings.HasPrefix(trimmed, "---\n") {
		return "", "", errors.New("docoverride: file does not start with a --- frontmatter block")
	}
	body := trimmed[len("---\n"):]
	idx := strings.Index(body, "\n---")
	if idx == -1 {
		return "", "", errors.New("docoverride: unterminated frontmatter block")
	}
	frontmatter = body[:idx]
	rest = body[idx+len("\n---"):]
	return frontmatter, rest, nil
}

// extractSection returns the text between a header and the next header
// (or end of document when until is empty).
func extractSection(text, header, until string) (string, error) {
	start := strings.Index(text, header)
	if start == -1 {
		return "", errors.Errorf("docoverride: missing section %q", header)
	}
	start += len(header)
	section := text[start:]
	if until != "" {
		if end := strings.Index(section, until); end != -1 {
			section = section[:end]
		}
	}
	return section, nil
}

// stripFence removes a single fenced code block's ``` delimiters, leaving
// its body. A section with no fence is returned unchanged (trimmed).
func stripFence(section string) string {
	trimmed := strings.TrimSpace(section)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	lines := strings.Split(trimmed, "\n")
	if len(lines) < 2 {
		return trimmed
	}
	lines = lines[1:]
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

// Path is the `{module}/{operation}.md` path doc-override files are
// indexed by (spec.md section 6).
func Path(module, operation string) string {
	return fmt.Sprintf("%s/%s.md", module, operation)
}
