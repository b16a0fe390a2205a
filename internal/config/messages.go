package config

import "fmt"

const (
	errUnsupportedValueFmt = "unsupported %s value %q"
)

type messageBuilders struct {
	unsupportedValue func(key, value string) string
}

func newMessageBuilders() messageBuilders {
	return messageBuilders{
		unsupportedValue: func(key, value string) string {
			return fmt.Sprintf(errUnsupportedValueFmt, key, value)
		},
	}
}

var messages = newMessageBuilders()
