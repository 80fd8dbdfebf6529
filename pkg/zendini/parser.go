package zendini

import (
	"io"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"
)

var (
	// iniLexer switches into the Value state after "=" so that bare values may
	// contain spaces, dots and colons. A newline returns to the Root state.
	iniLexer = lexer.MustStateful(lexer.Rules{
		"Root": {
			{Name: "Whitespace", Pattern: `[ \t\r]+`},
			{Name: "Comment", Pattern: `;[^\n]*`},
			{Name: "EOL", Pattern: `\n`},
			{Name: "Section", Pattern: `\[[^\]\n]*\]`},
			{Name: "Assign", Pattern: `=`, Action: lexer.Push("Value")},
			{Name: "Key", Pattern: `[^\s=;\["'][^\s=;"']*`},
		},
		"Value": {
			{Name: "Whitespace", Pattern: `[ \t\r]+`},
			{Name: "Comment", Pattern: `;[^\n]*`},
			{Name: "String", Pattern: `"[^"]*"|'[^']*'`},
			{Name: "Bare", Pattern: `[^"';\n]+`},
			{Name: "EOL", Pattern: `\n`, Action: lexer.Pop()},
		},
	})

	iniParser = participle.MustBuild[iniFile](
		participle.Lexer(iniLexer),
		participle.Elide("Whitespace", "Comment"),
	)
)

type (
	iniFile struct {
		Entries []*iniEntry `parser:"@@*"`
	}

	iniEntry struct {
		Section *string  `parser:"  @Section"`
		Pair    *iniPair `parser:"| @@"`
		Blank   bool     `parser:"| @EOL"`
	}

	iniPair struct {
		Pos   lexer.Position
		Key   string          `parser:"@Key '='"`
		Parts []*iniValuePart `parser:"@@* EOL?"`
	}

	iniValuePart struct {
		Quoted *string `parser:"  @String"`
		Bare   *string `parser:"| @Bare"`
	}
)

func parse(name string, r io.Reader) (*iniFile, error) {
	file, err := iniParser.Parse(name, r)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse ini file: %s", name)
	}

	return file, nil
}
