package source

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/teranos/depminer/errors"
)

// CSVOptions controls CSV parsing.
type CSVOptions struct {
	Delimiter  rune     // default ','
	HasHeader  bool     // first record names the columns
	NullTokens []string // cell values read as null, compared after trimming
	LazyQuotes bool
}

// DefaultCSVOptions returns comma-separated input with a header row and the
// empty string as the only null token.
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{Delimiter: ',', HasHeader: true, NullTokens: []string{""}}
}

// ReadCSV reads r into a table. Without a header, columns are named by their
// 1-based position. Every record must have as many fields as the first.
func ReadCSV(ctx context.Context, r io.Reader, name string, opts CSVOptions) (*Table, error) {
	cr := csv.NewReader(r)
	if opts.Delimiter != 0 {
		cr.Comma = opts.Delimiter
	}
	cr.LazyQuotes = opts.LazyQuotes
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	nulls := make(map[string]bool, len(opts.NullTokens))
	for _, tok := range opts.NullTokens {
		nulls[strings.TrimSpace(tok)] = true
	}

	first, err := cr.Read()
	if err == io.EOF {
		return nil, errors.NewInvalidInputError("%s: empty input", name)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "%s: read first record", name)
	}

	width := len(first)
	names := make([]string, width)
	if opts.HasHeader {
		for i, h := range first {
			h = strings.TrimSpace(h)
			if i == 0 {
				h = strings.TrimPrefix(h, "\ufeff")
			}
			if h == "" {
				h = strconv.Itoa(i + 1)
			}
			names[i] = h
		}
	} else {
		for i := range names {
			names[i] = strconv.Itoa(i + 1)
		}
	}

	b := newBuilder(names)
	addRecord := func(rec []string) {
		for i, v := range rec {
			b.add(i, v, nulls[strings.TrimSpace(v)])
		}
	}
	if !opts.HasHeader {
		if len(first) > 0 {
			first[0] = strings.TrimPrefix(first[0], "\ufeff")
		}
		addRecord(first)
	}

	for line := 2; ; line++ {
		if line%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "%s: line %d", name, line)
		}
		if len(rec) != width {
			return nil, errors.NewInvalidInputError("%s: line %d has %d fields, want %d", name, line, len(rec), width)
		}
		addRecord(rec)
	}

	return b.table(name), nil
}
