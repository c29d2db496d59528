package fuzztests

import (
	"testing"

	"qls/internal/library"
)

const maxFuzzInput = 16 << 10

var languageSeeds = []string{
	"",
	"namespace A {}",
	"function F() : Int { 1 }",
	"let x = 1;\nx + 2",
	"namespace A { @EntryPoint() operation Main() : Unit { use q = Qubit(); if M(q) == One { Reset(q); } } }",
	"namespace A { function F(a : Int, b : Double) : Unit { body intrinsic; } }",
	"mutable n = 0; while n < 10 { set n = n * 2; }",
	"\"héllo 😀\"",
	"namespace {",
	"function F( : Int",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range languageSeeds {
		f.Add([]byte(s))
	}
	for _, e := range append(library.Core(), library.Std()...) {
		if len(e.Contents) <= maxFuzzInput {
			f.Add([]byte(e.Contents))
		}
	}
}

func clip(input []byte) string {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return string(input)
}
