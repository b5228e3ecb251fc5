package lexer

import (
	"testing"

	"riascript/token"
)

func scanTypes(t *testing.T, src string) []token.TokenType {
	t.Helper()
	toks, err := NewCanonical([]byte(src)).Scan()
	if err != nil {
		t.Fatalf("Scan() raised an error: %v", err)
	}
	types := make([]token.TokenType, len(toks))
	for i, tok := range toks {
		types[i] = tok.TokenType
	}
	return types
}

func TestOperatorsSuccess(t *testing.T) {
	want := []token.TokenType{
		token.EQUAL_EQUAL, token.DIV, token.ASSIGN, token.MULT, token.ADD,
		token.LARGER, token.SUB, token.LESS, token.NOT_EQUAL,
		token.LESS_EQUAL, token.LARGER_EQUAL, token.BANG, token.BANG,
		token.EOF,
	}
	got := scanTypes(t, "==/=*+>-<!=<=>=!!")
	assertTypesEqual(t, got, want)
}

func TestScanPunctuation(t *testing.T) {
	want := []token.TokenType{
		token.LPA, token.RPA, token.LCUR, token.RCUR,
		token.MULT, token.MULT, token.SEMICOLON, token.ADD,
		token.NOT_EQUAL, token.LESS_EQUAL, token.EOF,
	}
	got := scanTypes(t, "(){}**;+!=<=")
	assertTypesEqual(t, got, want)
}

func TestScanIdentifiersAndKeywords(t *testing.T) {
	toks, err := New("global;while;return;if;else;true;false;myFunc").Scan()
	if err != nil {
		t.Fatalf("Scan() raised an error: %v", err)
	}
	want := []token.TokenType{
		token.GLOBAL, token.SEMICOLON, token.WHILE, token.SEMICOLON,
		token.RETURN, token.SEMICOLON, token.IF, token.SEMICOLON,
		token.ELSE, token.SEMICOLON, token.TRUE, token.SEMICOLON,
		token.FALSE, token.SEMICOLON, token.IDENTIFIER, token.EOF,
	}
	got := make([]token.TokenType, len(toks))
	for i, tok := range toks {
		got[i] = tok.TokenType
	}
	assertTypesEqual(t, got, want)
	if toks[14].Literal != "myfunc" {
		t.Errorf("identifier literal = %v, want %q (canonicalised lowercase)", toks[14].Literal, "myfunc")
	}
}

func TestScanDollarAndAtSigils(t *testing.T) {
	toks, err := NewCanonical([]byte("$counter@2")).Scan()
	if err != nil {
		t.Fatalf("Scan() raised an error: %v", err)
	}
	if toks[0].TokenType != token.DOLLAR_ID || toks[0].Literal != "counter" {
		t.Errorf("got %+v, want DOLLAR_ID \"counter\"", toks[0])
	}
	if toks[1].TokenType != token.AT_PARAM || toks[1].Literal != 2 {
		t.Errorf("got %+v, want AT_PARAM 2", toks[1])
	}
}

func TestScanStringEscapes(t *testing.T) {
	toks, err := NewCanonical([]byte(`"a\tb\nc\"d"`)).Scan()
	if err != nil {
		t.Fatalf("Scan() raised an error: %v", err)
	}
	want := "a\tb\nc\"d"
	if toks[0].Literal != want {
		t.Errorf("string literal = %q, want %q", toks[0].Literal, want)
	}
}

func TestScanUnterminatedString(t *testing.T) {
	_, err := NewCanonical([]byte(`"unterminated`)).Scan()
	if err == nil {
		t.Fatal("expected an error for an unterminated string literal")
	}
}

func TestScanInt(t *testing.T) {
	toks, err := NewCanonical([]byte("12345")).Scan()
	if err != nil {
		t.Fatalf("Scan() raised an error: %v", err)
	}
	if toks[0].TokenType != token.INT || toks[0].Literal != uint64(12345) {
		t.Errorf("got %+v, want INT 12345", toks[0])
	}
}

func assertTypesEqual(t *testing.T, got, want []token.TokenType) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("token count = %d, want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
