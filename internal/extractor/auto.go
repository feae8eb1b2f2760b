package extractor

import (
	"errors"

	"github.com/insightdelivered/cc-statement-consolidator/internal/logger"
)

// AutoDecoder reads pages with Primary and retries a page with Fallback when
// the primary text fails to decode or is unreadable. If Primary cannot open
// the document at all, Fallback is used for the whole document.
type AutoDecoder struct {
	Primary  Decoder
	Fallback Decoder
}

func (d *AutoDecoder) Name() string { return "auto" }

func (d *AutoDecoder) Open(path string) (Document, error) {
	log := logger.WithComponent("extractor")

	primary, err := d.Primary.Open(path)
	if err != nil {
		log.Warn().Err(err).Str("file", path).Str("decoder", d.Primary.Name()).
			Msg("Primary decoder failed, trying fallback")
		fallback, fbErr := d.Fallback.Open(path)
		if fbErr != nil {
			return nil, errors.Join(err, fbErr)
		}
		return fallback, nil
	}
	return &autoDocument{primary: primary, path: path, fallback: d.Fallback}, nil
}

type autoDocument struct {
	primary  Document
	path     string
	fallback Decoder

	fbDoc   Document
	fbErr   error
	fbTried bool
}

func (d *autoDocument) NumPages() int { return d.primary.NumPages() }

func (d *autoDocument) Close() error {
	err := d.primary.Close()
	if d.fbDoc != nil {
		err = errors.Join(err, d.fbDoc.Close())
	}
	return err
}

func (d *autoDocument) PageText(n int) (string, error) {
	text, err := d.primary.PageText(n)
	if err == nil && IsReadableText(text) {
		return text, nil
	}

	fb, fbErr := d.fallbackDoc()
	if fbErr != nil {
		if err != nil {
			return "", err
		}
		return text, nil
	}
	fbText, fbErr := fb.PageText(n)
	if fbErr != nil {
		if err != nil {
			return "", errors.Join(err, fbErr)
		}
		return text, nil
	}
	return fbText, nil
}

// fallbackDoc opens the fallback document once, on first need.
func (d *autoDocument) fallbackDoc() (Document, error) {
	if !d.fbTried {
		d.fbTried = true
		d.fbDoc, d.fbErr = d.fallback.Open(d.path)
	}
	return d.fbDoc, d.fbErr
}
