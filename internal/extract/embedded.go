package extract

import (
	"github.com/osedata/extract-core/internal/record"
)

// =============================================================================
// EMBEDDED REFERENCES
// Company records can carry their related articles and signals inline, at
// the top level or under the computed / v1legacy namespaces. These helpers
// pull them out as derived sub-batches for the owned expanders.
// =============================================================================

// articleNamespaces are the containers searched for embedded articles, in
// addition to the record's top level.
var articleNamespaces = []string{"computed", "v1legacy"}

// collectEmbeddedArticles gathers embedded articles from every known
// location and stamps the originating company onto articles that do not
// reference any company of their own, so they inherit the record's
// identity at expansion time.
func collectEmbeddedArticles(rec record.Record) []record.Record {
	owner := map[string]any{
		"label": record.String(rec, "socialName"),
		"siren": record.String(rec, "siren"),
		"siret": rec["siret"],
	}

	var out []record.Record
	collect := func(container record.Record) {
		for _, field := range []string{"article", "articles"} {
			for _, item := range oneOrMany(container[field]) {
				if article := adoptArticle(item, owner); article != nil {
					out = append(out, article)
				}
			}
		}
	}

	collect(rec)
	for _, ns := range articleNamespaces {
		if nested, ok := rec[ns].(map[string]any); ok {
			collect(nested)
		}
	}
	return out
}

// adoptArticle clones an embedded article and guarantees it carries at
// least one company reference. Articles that already reference companies
// keep their own list untouched.
func adoptArticle(item any, owner map[string]any) record.Record {
	var article record.Record
	switch t := item.(type) {
	case map[string]any:
		article = make(record.Record, len(t)+1)
		for k, v := range t {
			article[k] = v
		}
	case []any:
		if len(t) == 0 {
			return nil
		}
		article = record.Record{}
	default:
		return nil
	}

	companies := record.List(article["companies"], nil)
	if len(companies) == 0 {
		article["companies"] = []any{owner}
	}
	return article
}

// collectEmbeddedSignals gathers embedded signals, falling back to the
// legacy projects field when no signals are present. Unlike the company /
// siret association on the signal rows themselves, this is a
// first-non-empty choice, not a union.
func collectEmbeddedSignals(rec record.Record) []record.Record {
	items := oneOrMany(rec["signals"])
	if len(items) == 0 {
		items = oneOrMany(rec["projects"])
	}

	var out []record.Record
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			out = append(out, obj)
		} else if item != nil {
			out = append(out, record.Record{})
		}
	}
	return out
}

// oneOrMany normalizes a field that may hold either one object or a list
// of them.
func oneOrMany(v any) []any {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		return t
	default:
		return []any{v}
	}
}
