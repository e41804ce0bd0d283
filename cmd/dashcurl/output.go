package main

import (
	"bytes"
	"dash-api/envelope"
	"encoding/json"
	"fmt"
	"io"

	"github.com/tidwall/gjson"
)

// printBody writes body indented, after --unwrap and --select. Bodies that
// are not JSON are written as they are.
func printBody(w io.Writer, body []byte, opts *options) error {
	if len(body) == 0 {
		return nil
	}
	if opts.unwrap {
		body = envelope.UnwrapOr(body)
	}
	if opts.selectPath != "" {
		res := gjson.GetBytes(body, opts.selectPath)
		if !res.Exists() {
			return fmt.Errorf("nothing at %q", opts.selectPath)
		}
		body = []byte(res.Raw)
	}

	var out bytes.Buffer
	if err := json.Indent(&out, body, "", "  "); err != nil {
		out.Reset()
		out.Write(body)
	}
	out.WriteByte('\n')
	_, err := out.WriteTo(w)
	return err
}
