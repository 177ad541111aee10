// Package article defines the persisted news record and its JSONL codec.
package article

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Article is the unit of work and storage. The json/bson field names
// are the interchange contract shared with the viewer and bulk loader;
// one JSON object per line, UTF-8.
type Article struct {
	Title               string   `json:"title" bson:"title"`
	Description         string   `json:"description" bson:"description"`
	ArticleText         string   `json:"article_text" bson:"article_text"`
	PublicationDatetime string   `json:"publication_datetime" bson:"publication_datetime"`
	Keywords            []string `json:"keywords" bson:"keywords"`
	Authors             []string `json:"authors" bson:"authors"`
	SourceURL           string   `json:"source_url" bson:"source_url"`
	HeaderPhotoURL      string   `json:"header_photo_url,omitempty" bson:"header_photo_url,omitempty"`
	HeaderPhotoBase64   string   `json:"header_photo_base64,omitempty" bson:"header_photo_base64,omitempty"`
}

// Raw is the candidate record produced by the extractor before
// normalization and validation.
type Raw struct {
	Title               string
	Description         string
	ArticleText         string
	PublicationDatetime string
	Keywords            []string
	Authors             []string
	SourceURL           string
	HeaderPhotoURL      string
}

// DecodeLines reads line-delimited JSON articles from r, skipping blank
// lines. A malformed line aborts with its 1-based line number.
func DecodeLines(r io.Reader) ([]Article, error) {
	var out []Article
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		var a Article
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, fmt.Errorf("decode line %d: %w", line, err)
		}
		out = append(out, a)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan jsonl: %w", err)
	}
	return out, nil
}

// EncodeLines writes articles to w as line-delimited JSON.
func EncodeLines(w io.Writer, articles []Article) error {
	enc := json.NewEncoder(w)
	for _, a := range articles {
		if err := enc.Encode(a); err != nil {
			return fmt.Errorf("encode article %s: %w", a.SourceURL, err)
		}
	}
	return nil
}
