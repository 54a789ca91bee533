package asset

import (
	"encoding/xml"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/matzehuels/lasercard/pkg/errors"
)

// Policy decides what happens when a requested sub-path is absent.
type Policy int

const (
	// Strict fails the lookup with ASSET_NOT_FOUND.
	Strict Policy = iota
	// Lenient skips the missing id and reports it to the caller.
	Lenient
)

// PolicyFor maps the logo strictness setting to a policy.
func PolicyFor(strict bool) Policy {
	if strict {
		return Strict
	}
	return Lenient
}

// Element is one path copied from an asset.
type Element struct {
	ID string
	D  string
}

// Paths maps element ids to path data. When an id occurs more than once the
// first occurrence wins.
type Paths map[string]string

// ReadPaths reads every <path> with an id from the named SVG file.
func ReadPaths(file string) (Paths, error) {
	f, err := os.Open(file)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeAssetNotFound, err, "logo asset %s", file)
		}
		return nil, errors.Wrap(errors.ErrCodeIO, err, "open logo asset %s", file)
	}
	defer f.Close()

	paths, err := ReadPathsStream(f)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "read %s", file)
	}
	return paths, nil
}

// ReadPathsStream reads every <path> with an id from r. Documents in any
// encoding declared in the XML prolog are accepted.
func ReadPathsStream(r io.Reader) (Paths, error) {
	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = charset.NewReaderLabel

	paths := make(Paths)
	for {
		t, err := decoder.Token()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, errors.Wrap(errors.ErrCodeInvalidAsset, err, "parse svg")
		}
		se, ok := t.(xml.StartElement)
		if !ok || se.Name.Local != "path" {
			continue
		}
		var id, d string
		for _, a := range se.Attr {
			switch a.Name.Local {
			case "id":
				id = a.Value
			case "d":
				d = a.Value
			}
		}
		if id == "" || strings.TrimSpace(d) == "" {
			continue
		}
		if _, seen := paths[id]; !seen {
			paths[id] = d
		}
	}
	return paths, nil
}

// Lookup returns the path data for ids in the given order. Under Strict any
// missing id fails the whole lookup; under Lenient missing ids are skipped
// and returned in missing.
func (p Paths) Lookup(ids []string, policy Policy) (found []Element, missing []string, err error) {
	for _, id := range ids {
		d, ok := p[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		found = append(found, Element{ID: id, D: d})
	}
	if len(missing) > 0 && policy == Strict {
		return nil, missing, errors.New(errors.ErrCodeAssetNotFound,
			"logo sub-paths not found: %s", strings.Join(missing, ", "))
	}
	return found, missing, nil
}
