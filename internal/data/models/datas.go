package models

import (
	"bytes"
	"fmt"
	"strings"
	"time"
)

// Formatos aceitos para datas vindas da API, do mais completo ao só-data.
var formatosData = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// DataAPI é um instante recebido da API, que ora manda timestamp completo, ora só a data.
type DataAPI struct {
	time.Time
}

// UnmarshalJSON aceita string em qualquer formato de formatosData. "" vira o zero.
func (d *DataAPI) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	s := strings.Trim(string(b), `"`)
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	for _, layout := range formatosData {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("data em formato desconhecido: %q", s)
}

// MarshalJSON escreve em RFC 3339.
func (d DataAPI) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(time.RFC3339) + `"`), nil
}
