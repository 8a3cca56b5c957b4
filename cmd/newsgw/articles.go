package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	newsgateway "github.com/ferro-labs/news-gateway"
	"github.com/ferro-labs/news-gateway/internal/logging"
	"github.com/ferro-labs/news-gateway/internal/version"
	"github.com/ferro-labs/news-gateway/providers"
)

// articleService is the part of *newsgateway.Gateway the HTTP layer uses.
type articleService interface {
	TopArticles(ctx context.Context, count int) ([]providers.Article, error)
	SearchByKeyword(ctx context.Context, keyword string) ([]providers.Article, error)
	FindByTitle(ctx context.Context, title string) ([]providers.Article, error)
	FindByAuthor(ctx context.Context, author string) ([]providers.Article, error)
	Upstream() string
	CacheSizes(ctx context.Context) map[string]int
}

// newsHandler serves GET /news?count=N. count defaults to 10.
func newsHandler(svc articleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count := newsgateway.DefaultCount
		if raw := strings.TrimSpace(r.URL.Query().Get("count")); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				writeError(w, http.StatusBadRequest, "count must be a positive integer", "invalid_count")
				return
			}
			count = n
		}
		articles, err := svc.TopArticles(r.Context(), count)
		writeArticles(w, r, articles, err, "")
	}
}

// searchHandler serves GET /search?keyword=K.
func searchHandler(svc articleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		keyword, ok := requiredParam(w, r, "keyword")
		if !ok {
			return
		}
		articles, err := svc.SearchByKeyword(r.Context(), keyword)
		writeArticles(w, r, articles, err, "")
	}
}

// findByTitleHandler serves GET /findByTitle?title=T. An empty result is a 404.
func findByTitleHandler(svc articleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		title, ok := requiredParam(w, r, "title")
		if !ok {
			return
		}
		articles, err := svc.FindByTitle(r.Context(), title)
		writeArticles(w, r, articles, err, "no articles found with this title")
	}
}

// findByAuthorHandler serves GET /findByAuthor?author=A. An empty result is a 404.
func findByAuthorHandler(svc articleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		author, ok := requiredParam(w, r, "author")
		if !ok {
			return
		}
		articles, err := svc.FindByAuthor(r.Context(), author)
		writeArticles(w, r, articles, err, "no articles found for this author")
	}
}

func healthHandler(svc articleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":   "ok",
			"upstream": svc.Upstream(),
			"version":  version.Short(),
			"caches":   svc.CacheSizes(r.Context()),
		})
	}
}

func requiredParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	v := r.URL.Query().Get(name)
	if strings.TrimSpace(v) == "" {
		writeError(w, http.StatusBadRequest, "query parameter '"+name+"' is required", "missing_parameter")
		return "", false
	}
	return v, true
}

// writeArticles maps a service result to a response. With notFound set, an
// empty or absent result is a 404 carrying that message; otherwise it is an
// empty list.
func writeArticles(w http.ResponseWriter, r *http.Request, articles []providers.Article, err error, notFound string) {
	switch {
	case errors.Is(err, newsgateway.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, err.Error(), "invalid_parameter")
		return
	case errors.Is(err, newsgateway.ErrNoResult):
		articles = nil
	case err != nil:
		logging.FromContext(r.Context()).Error("article request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error", "")
		return
	}

	if len(articles) == 0 {
		if notFound != "" {
			writeError(w, http.StatusNotFound, notFound, "article_not_found")
			return
		}
		articles = []providers.Article{}
	}
	writeJSON(w, http.StatusOK, articles)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes the gateway JSON error envelope:
//
//	{"error":{"message":"...","type":"...","code":"..."}}
//
// code defaults to the type derived from the HTTP status.
func writeError(w http.ResponseWriter, status int, message, code string) {
	errType := defaultErrType(status)
	if code == "" {
		code = errType
	}
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{
			"message": message,
			"type":    errType,
			"code":    code,
		},
	})
}

func defaultErrType(status int) string {
	switch {
	case status == http.StatusNotFound:
		return "not_found_error"
	case status >= 400 && status < 500:
		return "invalid_request_error"
	default:
		return "server_error"
	}
}
