package main

import "testing"

func lexAll(t *testing.T, src string) []Token {
	t.Helper()
	lx := NewLexer("test.arc", src)
	var toks []Token
	for {
		tok, err := lx.Next()
		if err != nil {
			t.Fatalf("lex error: %v", err)
		}
		toks = append(toks, tok)
		if tok.Type == TokEOF {
			break
		}
	}
	return toks
}

func TestLexerKeywordsAndIdents(t *testing.T) {
	toks := lexAll(t, "fn main shared private count1")
	want := []TokenType{TokFn, TokIdent, TokShared, TokPrivate, TokIdent, TokEOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(want), toks)
	}
	for i, w := range want {
		if toks[i].Type != w {
			t.Errorf("token %d: got %v, want %v", i, toks[i].Type, w)
		}
	}
	if toks[1].Text != "main" {
		t.Errorf("token 1 text = %q, want %q", toks[1].Text, "main")
	}
}

func TestLexerNumbers(t *testing.T) {
	toks := lexAll(t, "42 3.14")
	if toks[0].Type != TokInt || toks[0].Text != "42" {
		t.Errorf("got %+v, want int 42", toks[0])
	}
	if toks[1].Type != TokFloat || toks[1].Text != "3.14" {
		t.Errorf("got %+v, want float 3.14", toks[1])
	}
}

func TestLexerStringAndChar(t *testing.T) {
	toks := lexAll(t, `"hello" 'x'`)
	if toks[0].Type != TokString {
		t.Errorf("got %v, want TokString", toks[0].Type)
	}
	if toks[1].Type != TokChar {
		t.Errorf("got %v, want TokChar", toks[1].Type)
	}
}

func TestLexerOperators(t *testing.T) {
	toks := lexAll(t, "== != <= >= && || ->")
	want := []TokenType{TokEq, TokNeq, TokLte, TokGte, TokAnd, TokOr, TokArrow, TokEOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(want), toks)
	}
	for i, w := range want {
		if toks[i].Type != w {
			t.Errorf("token %d: got %v, want %v", i, toks[i].Type, w)
		}
	}
}

func TestLexerSkipsComments(t *testing.T) {
	toks := lexAll(t, "var x // a comment\nvar y")
	var kinds []TokenType
	for _, tok := range toks {
		kinds = append(kinds, tok.Type)
	}
	want := []TokenType{TokVar, TokIdent, TokVar, TokIdent, TokEOF}
	if len(kinds) != len(want) {
		t.Fatalf("got %v, want %v", kinds, want)
	}
}

func TestLexerPeekDoesNotConsume(t *testing.T) {
	lx := NewLexer("test.arc", "var x")
	peeked, err := lx.Peek()
	if err != nil {
		t.Fatalf("peek error: %v", err)
	}
	if peeked.Type != TokVar {
		t.Fatalf("peeked %v, want TokVar", peeked.Type)
	}
	next, err := lx.Next()
	if err != nil {
		t.Fatalf("next error: %v", err)
	}
	if next.Type != TokVar {
		t.Fatalf("next %v, want TokVar", next.Type)
	}
}
