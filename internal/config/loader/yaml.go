package loader

import (
	"bytes"
	"errors"
	"io"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// yaml.v3 reports positions only inside its messages.
var yamlLine = regexp.MustCompile(`line (\d+)`)

func decodeYAML(source string, data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	err := dec.Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}

	msg := err.Error()
	var terr *yaml.TypeError
	if errors.As(err, &terr) && len(terr.Errors) > 0 {
		msg = terr.Errors[0]
	}
	msg = strings.TrimPrefix(msg, "yaml: ")

	perr := &ParseError{Path: source, Message: msg, Err: err}
	if m := yamlLine.FindStringSubmatch(msg); m != nil {
		perr.Line, _ = strconv.Atoi(m[1])
	}
	return perr
}
