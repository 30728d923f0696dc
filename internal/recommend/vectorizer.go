// Storefront Recommender - Content-Based Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-recommender

package recommend

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
)

// tokenPattern keeps runs of two or more word characters.
var tokenPattern = regexp.MustCompile(`\b\w\w+\b`)

// SparseVector is a feature row stored as parallel index/value slices
// sorted by index.
type SparseVector struct {
	Indices []int     `json:"i"`
	Values  []float64 `json:"v"`
}

// Dot returns the inner product of two sparse vectors.
//
//nolint:gocritic // small value type
func (v SparseVector) Dot(o SparseVector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(v.Indices) && j < len(o.Indices) {
		switch {
		case v.Indices[i] == o.Indices[j]:
			sum += v.Values[i] * o.Values[j]
			i++
			j++
		case v.Indices[i] < o.Indices[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

// Norm returns the L2 norm.
//
//nolint:gocritic // small value type
func (v SparseVector) Norm() float64 {
	var sum float64
	for _, x := range v.Values {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// Cosine returns the cosine similarity of two rows. A zero-norm row has
// similarity 0 with everything.
//
//nolint:gocritic // small value type
func Cosine(a, b SparseVector) float64 {
	na, nb := a.Norm(), b.Norm()
	if na == 0 || nb == 0 {
		return 0
	}
	return a.Dot(b) / (na * nb)
}

// Vectorizer is a fitted TF-IDF transform: a capped vocabulary with
// smoothed inverse document frequencies.
type Vectorizer struct {
	vocabulary []string
	idf        []float64
	index      map[string]int
}

// FitVectorizer builds the vocabulary and IDF weights from corpus.
//
// The vocabulary keeps the maxFeatures terms with the highest total count
// across the corpus (ties in lexical order) and indexes them alphabetically.
// IDF is ln((1+n)/(1+df)) + 1.
func FitVectorizer(corpus []string, maxFeatures int) *Vectorizer {
	counts := make(map[string]int)
	df := make(map[string]int)
	for _, doc := range corpus {
		seen := make(map[string]struct{})
		for _, tok := range tokenize(doc) {
			counts[tok]++
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	terms := make([]string, 0, len(counts))
	for term := range counts {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if counts[terms[i]] != counts[terms[j]] {
			return counts[terms[i]] > counts[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if maxFeatures > 0 && len(terms) > maxFeatures {
		terms = terms[:maxFeatures]
	}
	sort.Strings(terms)

	n := float64(len(corpus))
	idf := make([]float64, len(terms))
	for i, term := range terms {
		idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}

	v, _ := NewVectorizer(terms, idf)
	return v
}

// NewVectorizer restores a fitted vectorizer from its vocabulary and IDF weights.
func NewVectorizer(vocabulary []string, idf []float64) (*Vectorizer, error) {
	if len(vocabulary) != len(idf) {
		return nil, fmt.Errorf("vocabulary has %d terms but idf has %d weights", len(vocabulary), len(idf))
	}
	index := make(map[string]int, len(vocabulary))
	for i, term := range vocabulary {
		if _, dup := index[term]; dup {
			return nil, fmt.Errorf("duplicate vocabulary term %q", term)
		}
		index[term] = i
	}
	return &Vectorizer{
		vocabulary: append([]string(nil), vocabulary...),
		idf:        append([]float64(nil), idf...),
		index:      index,
	}, nil
}

// Transform returns the L2-normalized TF-IDF row for doc. Terms outside the
// vocabulary are dropped; a document with no known terms yields an empty row.
func (v *Vectorizer) Transform(doc string) SparseVector {
	tf := make(map[int]int)
	for _, tok := range tokenize(doc) {
		if idx, ok := v.index[tok]; ok {
			tf[idx]++
		}
	}
	if len(tf) == 0 {
		return SparseVector{}
	}

	row := SparseVector{
		Indices: make([]int, 0, len(tf)),
		Values:  make([]float64, 0, len(tf)),
	}
	for idx := range tf {
		row.Indices = append(row.Indices, idx)
	}
	sort.Ints(row.Indices)

	var norm float64
	for _, idx := range row.Indices {
		w := float64(tf[idx]) * v.idf[idx]
		row.Values = append(row.Values, w)
		norm += w * w
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range row.Values {
			row.Values[i] /= norm
		}
	}
	return row
}

// Vocabulary returns a copy of the fitted terms in index order.
func (v *Vectorizer) Vocabulary() []string {
	return append([]string(nil), v.vocabulary...)
}

// IDF returns a copy of the IDF weights in index order.
func (v *Vectorizer) IDF() []float64 {
	return append([]float64(nil), v.idf...)
}

// Len returns the vocabulary size.
func (v *Vectorizer) Len() int {
	return len(v.vocabulary)
}

func tokenize(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, tok := range raw {
		if _, stop := stopWords[tok]; stop {
			continue
		}
		out = append(out, tok)
	}
	return out
}
