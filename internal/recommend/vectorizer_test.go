// Storefront Recommender - Content-Based Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-recommender

package recommend

import (
	"math"
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"lowercases", "Red SHIRT", []string{"red", "shirt"}},
		{"drops single characters", "T-Shirts M", []string{"shirts"}},
		{"drops stop words", "the shirt and the jeans", []string{"shirt", "jeans"}},
		{"keeps digits and underscores", "size_xl 42", []string{"size_xl", "42"}},
		{"empty", "", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tokenize(tt.in)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("tokenize(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFitVectorizerVocabulary(t *testing.T) {
	corpus := []string{"red shirt", "red pants", "blue shirt red"}

	t.Run("capped by total count then sorted", func(t *testing.T) {
		v := FitVectorizer(corpus, 2)
		if got := v.Vocabulary(); !reflect.DeepEqual(got, []string{"red", "shirt"}) {
			t.Errorf("Vocabulary() = %v, want [red shirt]", got)
		}
	})

	t.Run("count ties broken lexically", func(t *testing.T) {
		v := FitVectorizer(corpus, 3)
		if got := v.Vocabulary(); !reflect.DeepEqual(got, []string{"blue", "red", "shirt"}) {
			t.Errorf("Vocabulary() = %v, want [blue red shirt]", got)
		}
	})

	t.Run("uncapped", func(t *testing.T) {
		v := FitVectorizer(corpus, 50)
		if v.Len() != 4 {
			t.Errorf("Len() = %d, want 4", v.Len())
		}
	})
}

func TestFitVectorizerIDF(t *testing.T) {
	v := FitVectorizer([]string{"red shirt", "red pants", "blue shirt red"}, 50)
	idf := make(map[string]float64)
	for i, term := range v.Vocabulary() {
		idf[term] = v.IDF()[i]
	}

	// n=3: red df=3, shirt df=2, blue df=1
	want := map[string]float64{
		"red":   math.Log(4.0/4.0) + 1,
		"shirt": math.Log(4.0/3.0) + 1,
		"blue":  math.Log(4.0/2.0) + 1,
	}
	for term, w := range want {
		if math.Abs(idf[term]-w) > 1e-12 {
			t.Errorf("idf[%s] = %v, want %v", term, idf[term], w)
		}
	}
}

func TestTransform(t *testing.T) {
	v := FitVectorizer([]string{"red shirt", "red pants", "blue shirt red"}, 50)

	row := v.Transform("red red shirt unknown")
	if math.Abs(row.Norm()-1) > 1e-12 {
		t.Errorf("Norm() = %v, want 1", row.Norm())
	}
	if len(row.Indices) != 2 {
		t.Errorf("Indices = %v, want 2 known terms", row.Indices)
	}
	for i := 1; i < len(row.Indices); i++ {
		if row.Indices[i] <= row.Indices[i-1] {
			t.Errorf("Indices not ascending: %v", row.Indices)
		}
	}

	if empty := v.Transform("nothing known here"); len(empty.Indices) != 0 || empty.Norm() != 0 {
		t.Errorf("Transform(unknown) = %+v, want empty row", empty)
	}
}

func TestCosine(t *testing.T) {
	v := FitVectorizer([]string{"red shirt cotton", "blue jeans denim", "red jeans"}, 50)
	a := v.Transform("red shirt cotton")
	b := v.Transform("blue jeans denim")
	c := v.Transform("red jeans")

	if got := Cosine(a, a); math.Abs(got-1) > 1e-12 {
		t.Errorf("Cosine(a, a) = %v, want 1", got)
	}
	if got := Cosine(a, b); got != 0 {
		t.Errorf("Cosine(disjoint) = %v, want 0", got)
	}
	if got := Cosine(a, c); got <= 0 || got >= 1 {
		t.Errorf("Cosine(overlapping) = %v, want in (0, 1)", got)
	}
	if got := Cosine(a, SparseVector{}); got != 0 {
		t.Errorf("Cosine(empty) = %v, want 0", got)
	}
	if math.Abs(Cosine(a, c)-Cosine(c, a)) > 1e-15 {
		t.Error("Cosine is not symmetric")
	}
}

func TestNewVectorizerValidation(t *testing.T) {
	if _, err := NewVectorizer([]string{"a", "b"}, []float64{1}); err == nil {
		t.Error("NewVectorizer(length mismatch) error = nil")
	}
	if _, err := NewVectorizer([]string{"red", "red"}, []float64{1, 1}); err == nil {
		t.Error("NewVectorizer(duplicate) error = nil")
	}
	v, err := NewVectorizer([]string{"red", "shirt"}, []float64{1, 2})
	if err != nil {
		t.Fatalf("NewVectorizer() error = %v", err)
	}
	if row := v.Transform("shirt"); len(row.Indices) != 1 || row.Indices[0] != 1 {
		t.Errorf("Transform(shirt) = %+v", row)
	}
}
