package token

import "testing"

func TestCreateToken(t *testing.T) {
	tests := []struct {
		name      string
		tokenType TokenType
		pos       int
		wantLex   string
	}{
		{"ASSIGN", ASSIGN, 3, "="},
		{"MULT", MULT, 7, "*"},
		{"LPA", LPA, 0, "("},
		{"AND", AND, 12, "&&"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CreateToken(tt.tokenType, tt.pos)
			if got.TokenType != tt.tokenType {
				t.Errorf("TokenType = %v, want %v", got.TokenType, tt.tokenType)
			}
			if got.Lexeme != tt.wantLex {
				t.Errorf("Lexeme = %q, want %q", got.Lexeme, tt.wantLex)
			}
			if got.Pos != tt.pos {
				t.Errorf("Pos = %d, want %d", got.Pos, tt.pos)
			}
		})
	}
}

func TestCreateLiteralToken(t *testing.T) {
	tok := CreateLiteralToken(IDENTIFIER, "myVar", "myVar", 5)
	if tok.TokenType != IDENTIFIER {
		t.Errorf("TokenType = %v, want IDENTIFIER", tok.TokenType)
	}
	if tok.Literal != "myVar" {
		t.Errorf("Literal = %v, want %q", tok.Literal, "myVar")
	}
	if tok.Lexeme != "myVar" {
		t.Errorf("Lexeme = %q, want %q", tok.Lexeme, "myVar")
	}

	paramTok := CreateLiteralToken(AT_PARAM, 2, "@2", 9)
	if paramTok.Literal != 2 {
		t.Errorf("Literal = %v, want 2", paramTok.Literal)
	}
}

func TestTokenString(t *testing.T) {
	tok := CreateToken(ADD, 0)
	got := tok.String()
	if got == "" {
		t.Error("String() returned empty string")
	}
}
