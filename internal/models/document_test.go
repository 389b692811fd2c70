package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNumberCoercion(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{`42`, 42},
		{`3.5`, 3.5},
		{`"7.25"`, 7.25},
		{`" 2 "`, 2},
		{`null`, 0},
		{`"abc"`, 0},
		{`""`, 0},
	}
	for _, c := range cases {
		var n Number
		if err := json.Unmarshal([]byte(c.in), &n); err != nil {
			t.Errorf("unmarshal %s: %v", c.in, err)
			continue
		}
		if n.Float() != c.want {
			t.Errorf("coerce %s = %v, want %v", c.in, n.Float(), c.want)
		}
	}
}

func TestArtifactJSONKeysAreCamelCase(t *testing.T) {
	a := Artifact{
		ID:          uuid.New(),
		Filename:    "Invoice_INV-1_1.pdf",
		ContentType: PDFContentType,
		Checksum:    "abc",
		CreatedAt:   time.Now().UTC(),
	}
	out, err := json.Marshal(a)
	if err != nil {
		t.Fatal(err)
	}
	s := string(out)
	for _, key := range []string{`"contentType"`, `"createdAt"`, `"checksum"`} {
		if !strings.Contains(s, key) {
			t.Errorf("marshaled artifact missing key %s: %s", key, s)
		}
	}
	if strings.Contains(s, "created_at") {
		t.Errorf("marshaled artifact uses snake_case: %s", s)
	}

	sum, err := json.Marshal(ArtifactSummary{ID: a.ID, Filename: a.Filename, CreatedAt: a.CreatedAt})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(sum), `"createdAt"`) || strings.Contains(string(sum), "created_at") {
		t.Errorf("marshaled summary keys: %s", sum)
	}
}

func TestArtifactDataNeverMarshaled(t *testing.T) {
	out, err := json.Marshal(Artifact{ID: uuid.New(), Data: []byte("secret-bytes")})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(out), "secret") || strings.Contains(string(out), `"data"`) {
		t.Errorf("payload leaked into JSON: %s", out)
	}
}
