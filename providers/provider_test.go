package providers

import (
	"encoding/json"
	"testing"
)

func TestQuery_Validate(t *testing.T) {
	tests := []struct {
		name    string
		q       Query
		wantErr bool
	}{
		{"empty query", Query{}, false},
		{"top headlines", Query{PageSize: 10, Country: "us"}, false},
		{"lookup batch", Query{PageSize: 100, Language: "en"}, false},
		{"keyword", Query{Keyword: "technology"}, false},
		{"negative page size", Query{PageSize: -1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.q.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestArticle_UpstreamJSONRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{
			name: "nulls",
			data: `{"source":{"id":null,"name":"Engadget"},"author":null,"title":"Apple announces new MacBook Pro","description":null,"url":"https://example.com/a","urlToImage":null,"publishedAt":null,"content":null}`,
		},
		{
			name: "all fields set",
			data: `{"source":{"id":"engadget","name":"Engadget"},"author":"Jane Doe","title":"T","description":"d","url":"https://example.com/a","urlToImage":"https://example.com/a.png","publishedAt":"2026-10-14T09:30:00Z","content":"c"}`,
		},
		{
			name: "non rfc3339 timestamp",
			data: `{"source":{"id":null,"name":"Engadget"},"author":"Jane Doe","title":"T","description":"d","url":"https://example.com/a","urlToImage":null,"publishedAt":"2024-05-01 12:00:00","content":"c"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a Article
			if err := json.Unmarshal([]byte(tt.data), &a); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			out, err := json.Marshal(a)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(out) != tt.data {
				t.Errorf("round trip changed the article:\n got %s\nwant %s", out, tt.data)
			}
		})
	}
}

func TestArticle_MissingFieldsEncodeAsNull(t *testing.T) {
	out, err := json.Marshal(Article{Title: "T"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"source":{"id":null,"name":""},"author":null,"title":"T","description":null,"url":"","urlToImage":null,"publishedAt":null,"content":null}`
	if string(out) != want {
		t.Errorf("got %s, want %s", out, want)
	}
}

func TestArticle_AuthorName(t *testing.T) {
	name := "Jane Doe"
	if got := (Article{Author: &name}).AuthorName(); got != name {
		t.Errorf("AuthorName() = %q, want %q", got, name)
	}
	if got := (Article{}).AuthorName(); got != "" {
		t.Errorf("AuthorName() = %q for absent author, want empty", got)
	}
}
