package pipeline

import (
	"github.com/matzehuels/framegrid/pkg/cache"
	"github.com/matzehuels/framegrid/pkg/config"
)

// Load reads the description named by opts and returns it with its content
// hash. The hash is taken over the canonical TOML encoding, so formatting
// and comments in the source do not change it. Size overrides are applied
// after hashing.
func Load(opts Options) (*config.Document, string, error) {
	var (
		doc *config.Document
		err error
	)
	switch {
	case opts.Path != "":
		doc, err = config.Load(opts.Path)
	case opts.Source != "":
		doc, err = config.Parse([]byte(opts.Source))
	default:
		d := *opts.Document
		doc = &d
		doc.SetDefaults()
		err = doc.Validate()
	}
	if err != nil {
		return nil, "", err
	}

	canonical, err := doc.Encode()
	if err != nil {
		return nil, "", err
	}
	hash := cache.Hash(canonical)

	if opts.Width > 0 {
		doc.Width = opts.Width
	}
	if opts.Height > 0 {
		doc.Height = opts.Height
	}
	return doc, hash, nil
}
