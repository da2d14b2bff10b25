package formatter

import (
	"io"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-run-history/internal/core/history"
)

type JSONFormatter struct{}

func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

func (f *JSONFormatter) Format(w io.Writer, days []history.DayBucket) error {
	if days == nil {
		days = []history.DayBucket{}
	}
	data, err := sonic.MarshalIndent(days, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
