// Package lexer - hand-written tokenizer for the supported C subset
package lexer

import (
	"fmt"

	"cguide/pkg/span"
)

// TokenType represents the type of a token
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenError

	// Comments
	TokenLineComment  // //
	TokenBlockComment // /* */

	// Preprocessor directives (each one covers its whole line)
	TokenInclude // #include
	TokenDefine  // #define
	TokenIfdef   // #ifdef
	TokenIfndef  // #ifndef
	TokenIf      // #if
	TokenElif    // #elif
	TokenElse    // #else
	TokenEndif   // #endif

	// Literals
	TokenIdentifier
	TokenNumberLiteral
	TokenFloatLiteral

	// Operators and punctuation
	TokenLeftParen    // (
	TokenRightParen   // )
	TokenLeftBrace    // {
	TokenRightBrace   // }
	TokenLeftBracket  // [
	TokenRightBracket // ]
	TokenSemicolon    // ;
	TokenColon        // :
	TokenComma        // ,
	TokenDot          // .
	TokenArrow        // ->
	TokenEquals       // =
	TokenDoubleEquals // ==
	TokenNotEquals    // !=
	TokenLess         // <
	TokenGreater      // >
	TokenLessEqual    // <=
	TokenGreaterEqual // >=
	TokenAmpersand    // &
	TokenDoubleAmp    // &&
	TokenPipe         // |
	TokenDoublePipe   // ||
	TokenCaret        // ^
	TokenTilde        // ~
	TokenExclamation  // !
	TokenQuestion     // ?
	TokenPlus         // +
	TokenMinus        // -
	TokenStar         // *
	TokenSlash        // /
	TokenPercent      // %
	TokenPlusPlus     // ++
	TokenMinusMinus   // --
	TokenLeftShift    // <<
	TokenRightShift   // >>

	// Keywords
	TokenKeywordStart // Marker for start of keywords
	TokenAuto
	TokenRegister
	TokenStatic
	TokenExtern
	TokenTypedef
	TokenConst
	TokenVolatile
	TokenRestrict
	TokenAtomic
	TokenVoid
	TokenChar
	TokenShort
	TokenInt
	TokenLong
	TokenFloat
	TokenDouble
	TokenSigned
	TokenUnsigned
	TokenBool
	TokenStruct
	TokenEnum
	TokenUnion
	TokenReturn
	TokenIfKeyword
	TokenElseKeyword
	TokenWhile
	TokenFor
	TokenKeywordEnd // Marker for end of keywords
)

// Token represents a single lexed token. Fixed-lexeme tokens carry
// only a type and a span; literal, identifier and directive tokens
// additionally carry their decoded payload.
type Token struct {
	Type TokenType
	Span span.Span

	// Text holds the raw lexeme for identifiers and literals, and the
	// message for error tokens.
	Text string

	// Include payload
	Filename string

	// Define payload
	MacroName  string
	MacroValue string
}

// keywords maps reserved words to their token types.
var keywords = map[string]TokenType{
	"auto":     TokenAuto,
	"register": TokenRegister,
	"static":   TokenStatic,
	"extern":   TokenExtern,
	"typedef":  TokenTypedef,
	"const":    TokenConst,
	"volatile": TokenVolatile,
	"restrict": TokenRestrict,
	"_Atomic":  TokenAtomic,
	"void":     TokenVoid,
	"char":     TokenChar,
	"short":    TokenShort,
	"int":      TokenInt,
	"long":     TokenLong,
	"float":    TokenFloat,
	"double":   TokenDouble,
	"signed":   TokenSigned,
	"unsigned": TokenUnsigned,
	"_Bool":    TokenBool,
	"struct":   TokenStruct,
	"enum":     TokenEnum,
	"union":    TokenUnion,
	"return":   TokenReturn,
	"if":       TokenIfKeyword,
	"else":     TokenElseKeyword,
	"while":    TokenWhile,
	"for":      TokenFor,
}

// tokenNames is used for debug output and the tokens CLI command.
var tokenNames = map[TokenType]string{
	TokenEOF:           "EOF",
	TokenError:         "Error",
	TokenLineComment:   "LineComment",
	TokenBlockComment:  "BlockComment",
	TokenInclude:       "Include",
	TokenDefine:        "Define",
	TokenIfdef:         "Ifdef",
	TokenIfndef:        "Ifndef",
	TokenIf:            "If",
	TokenElif:          "Elif",
	TokenElse:          "Else",
	TokenEndif:         "Endif",
	TokenIdentifier:    "Identifier",
	TokenNumberLiteral: "NumberLiteral",
	TokenFloatLiteral:  "FloatLiteral",
	TokenLeftParen:     "LeftParen",
	TokenRightParen:    "RightParen",
	TokenLeftBrace:     "LeftBrace",
	TokenRightBrace:    "RightBrace",
	TokenLeftBracket:   "LeftBracket",
	TokenRightBracket:  "RightBracket",
	TokenSemicolon:     "Semicolon",
	TokenColon:         "Colon",
	TokenComma:         "Comma",
	TokenDot:           "Dot",
	TokenArrow:         "Arrow",
	TokenEquals:        "Equals",
	TokenDoubleEquals:  "DoubleEquals",
	TokenNotEquals:     "NotEquals",
	TokenLess:          "Less",
	TokenGreater:       "Greater",
	TokenLessEqual:     "LessEqual",
	TokenGreaterEqual:  "GreaterEqual",
	TokenAmpersand:     "Ampersand",
	TokenDoubleAmp:     "DoubleAmp",
	TokenPipe:          "Pipe",
	TokenDoublePipe:    "DoublePipe",
	TokenCaret:         "Caret",
	TokenTilde:         "Tilde",
	TokenExclamation:   "Exclamation",
	TokenQuestion:      "Question",
	TokenPlus:          "Plus",
	TokenMinus:         "Minus",
	TokenStar:          "Star",
	TokenSlash:         "Slash",
	TokenPercent:       "Percent",
	TokenPlusPlus:      "PlusPlus",
	TokenMinusMinus:    "MinusMinus",
	TokenLeftShift:     "LeftShift",
	TokenRightShift:    "RightShift",
	TokenAuto:          "auto",
	TokenRegister:      "register",
	TokenStatic:        "static",
	TokenExtern:        "extern",
	TokenTypedef:       "typedef",
	TokenConst:         "const",
	TokenVolatile:      "volatile",
	TokenRestrict:      "restrict",
	TokenAtomic:        "_Atomic",
	TokenVoid:          "void",
	TokenChar:          "char",
	TokenShort:         "short",
	TokenInt:           "int",
	TokenLong:          "long",
	TokenFloat:         "float",
	TokenDouble:        "double",
	TokenSigned:        "signed",
	TokenUnsigned:      "unsigned",
	TokenBool:          "_Bool",
	TokenStruct:        "struct",
	TokenEnum:          "enum",
	TokenUnion:         "union",
	TokenReturn:        "return",
	TokenIfKeyword:     "if",
	TokenElseKeyword:   "else",
	TokenWhile:         "while",
	TokenFor:           "for",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// IsKeyword reports whether the type is a reserved word.
func (t TokenType) IsKeyword() bool {
	return t > TokenKeywordStart && t < TokenKeywordEnd
}

// IsDirective reports whether the type is a preprocessor directive.
func (t TokenType) IsDirective() bool {
	return t >= TokenInclude && t <= TokenEndif
}

func (t Token) String() string {
	switch t.Type {
	case TokenIdentifier, TokenNumberLiteral, TokenFloatLiteral, TokenError:
		return fmt.Sprintf("%s(%q)", t.Type, t.Text)
	case TokenInclude:
		return fmt.Sprintf("Include(%q)", t.Filename)
	case TokenDefine:
		return fmt.Sprintf("Define(%q=%q)", t.MacroName, t.MacroValue)
	default:
		return t.Type.String()
	}
}
