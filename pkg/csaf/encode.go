package csaf

import (
	"encoding/json"
	"io"
	"os"

	"github.com/samber/oops"
	"golang.org/x/xerrors"
)

// Encode normalizes adv and writes it as indented JSON.
func Encode(w io.Writer, adv *Advisory) error {
	adv.Normalize()
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(adv); err != nil {
		return xerrors.Errorf("json encode error: %w", err)
	}
	return nil
}

func Decode(r io.Reader) (*Advisory, error) {
	var adv Advisory
	if err := json.NewDecoder(r).Decode(&adv); err != nil {
		return nil, xerrors.Errorf("json decode error: %w", err)
	}
	return &adv, nil
}

// Load reads a CSAF document from a file.
func Load(fileName string) (*Advisory, error) {
	eb := oops.With("file_name", fileName)

	f, err := os.Open(fileName)
	if err != nil {
		return nil, eb.Wrapf(err, "file open error")
	}
	defer f.Close()

	adv, err := Decode(f)
	if err != nil {
		return nil, eb.Wrap(err)
	}
	return adv, nil
}

// Save writes adv to fileName, truncating an existing file.
func Save(adv *Advisory, fileName string) (err error) {
	eb := oops.With("file_name", fileName)

	f, err := os.Create(fileName)
	if err != nil {
		return eb.Wrapf(err, "file create error")
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = eb.Wrapf(cerr, "file close error")
		}
	}()

	if err = Encode(f, adv); err != nil {
		return eb.Wrap(err)
	}
	return nil
}
