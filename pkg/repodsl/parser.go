package repodsl

import (
	fetchyerrors "github.com/fetchy/fetchy/pkg/errors"
)

// Parser is a hand-written recursive-descent parser over the grammar in
// spec.md §4.2. It performs no semantic validation — that is the Repository
// Loader's job (pkg/repository) — only syntactic structure and source
// locations are produced.
type Parser struct {
	lex  *Lexer
	cur  Token
	peek Token
}

// Parse tokenizes and parses src into a File AST, or returns a
// CodeSyntaxError describing the first malformed construct encountered.
func Parse(src string) (*File, error) {
	p := &Parser{lex: NewLexer(src)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p.parseFile()
}

func (p *Parser) advance() error {
	p.cur = p.peek
	tok, err := p.lex.Next()
	if err != nil {
		return err
	}
	p.peek = tok
	return nil
}

func (p *Parser) errorf(span Span, format string, args ...any) error {
	msg := fetchyerrors.New(fetchyerrors.CodeSyntaxError, format, args...)
	msg.Message = formatSpan(span) + ": " + msg.Message
	return msg
}

func (p *Parser) expect(k Kind) (Token, error) {
	if p.cur.Kind != k {
		return Token{}, p.errorf(p.cur.Span, "expected %s, found %s %q", k, p.cur.Kind, p.cur.Literal)
	}
	tok := p.cur
	return tok, p.advance()
}

func (p *Parser) expectKeyword(word string) (Token, error) {
	if p.cur.Kind != Ident || p.cur.Literal != word {
		return Token{}, p.errorf(p.cur.Span, "expected %q, found %s %q", word, p.cur.Kind, p.cur.Literal)
	}
	tok := p.cur
	return tok, p.advance()
}

func (p *Parser) expectString() (StringLit, error) {
	tok, err := p.expect(String)
	if err != nil {
		return StringLit{}, err
	}
	return StringLit{Value: tok.Literal, Span: tok.Span}, nil
}

func (p *Parser) atKeyword(word string) bool {
	return p.cur.Kind == Ident && p.cur.Literal == word
}

func (p *Parser) parseFile() (*File, error) {
	start := p.cur.Span.Start

	if _, err := p.expectKeyword("name"); err != nil {
		return nil, err
	}
	name, err := p.expectString()
	if err != nil {
		return nil, err
	}

	if _, err := p.expectKeyword("description"); err != nil {
		return nil, err
	}
	desc, err := p.expectString()
	if err != nil {
		return nil, err
	}

	if _, err := p.expectKeyword("packages"); err != nil {
		return nil, err
	}
	if _, err := p.expect(LBrace); err != nil {
		return nil, err
	}

	var pkgs []PkgNode
	for p.cur.Kind != RBrace {
		if p.cur.Kind == EOF {
			return nil, p.errorf(p.cur.Span, "unexpected end of file, expected %s or package declaration", RBrace)
		}
		pkg, err := p.parsePkg()
		if err != nil {
			return nil, err
		}
		pkgs = append(pkgs, *pkg)
	}
	end := p.cur.Span.End
	if _, err := p.expect(RBrace); err != nil {
		return nil, err
	}

	return &File{Name: name, Description: desc, Packages: pkgs, Span: Span{Start: start, End: end}}, nil
}

func (p *Parser) parsePkg() (*PkgNode, error) {
	start := p.cur.Span.Start

	name, err := p.expectString()
	if err != nil {
		return nil, err
	}

	var requires []StringLit
	if p.cur.Kind == LParen {
		requires, err = p.parseRequires()
		if err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(Colon); err != nil {
		return nil, err
	}

	source, err := p.parseSource()
	if err != nil {
		return nil, err
	}

	version, err := p.parseVersion()
	if err != nil {
		return nil, err
	}

	prerelease := false
	if p.cur.Kind == LBracket {
		prerelease, err = p.parseFlags()
		if err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(LBrace); err != nil {
		return nil, err
	}

	var variants []VariantNode
	for {
		v, err := p.parseVariant()
		if err != nil {
			return nil, err
		}
		variants = append(variants, *v)
		if p.cur.Kind != Comma {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	end := p.cur.Span.End
	if _, err := p.expect(RBrace); err != nil {
		return nil, err
	}

	return &PkgNode{
		Name:       name,
		Requires:   requires,
		Source:     *source,
		Version:    *version,
		Prerelease: prerelease,
		Variants:   variants,
		Span:       Span{Start: start, End: end},
	}, nil
}

func (p *Parser) parseRequires() ([]StringLit, error) {
	if _, err := p.expect(LParen); err != nil {
		return nil, err
	}
	if _, err := p.expectKeyword("requires"); err != nil {
		return nil, err
	}

	var names []StringLit
	for {
		s, err := p.expectString()
		if err != nil {
			return nil, err
		}
		names = append(names, s)
		if p.cur.Kind != Comma {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(RParen); err != nil {
		return nil, err
	}
	return names, nil
}

func (p *Parser) parseSource() (*SourceNode, error) {
	start := p.cur.Span.Start
	switch {
	case p.atKeyword("GitHub"):
		if err := p.advance(); err != nil {
			return nil, err
		}
		repo, err := p.expectString()
		if err != nil {
			return nil, err
		}
		return &SourceNode{Kind: SourceGitHub, Repo: repo, Span: Span{Start: start, End: repo.Span.End}}, nil
	case p.atKeyword("Direct"):
		end := p.cur.Span.End
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &SourceNode{Kind: SourceDirect, Span: Span{Start: start, End: end}}, nil
	default:
		return nil, p.errorf(p.cur.Span, "expected %q or %q, found %s %q", "GitHub", "Direct", p.cur.Kind, p.cur.Literal)
	}
}

func (p *Parser) parseVersion() (*VersionNode, error) {
	start := p.cur.Span.Start
	if _, err := p.expectKeyword("version"); err != nil {
		return nil, err
	}
	if _, err := p.expect(LParen); err != nil {
		return nil, err
	}

	var node VersionNode
	switch {
	case p.atKeyword("TagName"):
		node.Kind = VersionTagName
		if err := p.advance(); err != nil {
			return nil, err
		}
	case p.atKeyword("ReleaseTitle"):
		node.Kind = VersionReleaseTitle
		if err := p.advance(); err != nil {
			return nil, err
		}
	case p.cur.Kind == String:
		lit, err := p.expectString()
		if err != nil {
			return nil, err
		}
		node.Kind = VersionLiteral
		node.Literal = lit
	default:
		return nil, p.errorf(p.cur.Span, "expected %q, %q, or a string literal, found %s %q", "TagName", "ReleaseTitle", p.cur.Kind, p.cur.Literal)
	}

	end := p.cur.Span.End
	if _, err := p.expect(RParen); err != nil {
		return nil, err
	}
	node.Span = Span{Start: start, End: end}
	return &node, nil
}

func (p *Parser) parseFlags() (bool, error) {
	if _, err := p.expect(LBracket); err != nil {
		return false, err
	}
	prerelease := false
	if p.atKeyword("prelease") {
		prerelease = true
		if err := p.advance(); err != nil {
			return false, err
		}
	}
	if _, err := p.expect(RBracket); err != nil {
		return false, err
	}
	return prerelease, nil
}

func (p *Parser) parseVariant() (*VariantNode, error) {
	start := p.cur.Span.Start

	osTok := p.cur
	if osTok.Kind != Ident {
		return nil, p.errorf(osTok.Span, "expected an OS name, found %s %q", osTok.Kind, osTok.Literal)
	}
	if _, ok := validOS[osTok.Literal]; !ok {
		return nil, p.errorf(osTok.Span, "unknown OS %q, expected one of linux, windows, macos", osTok.Literal)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	if _, err := p.expect(LBracket); err != nil {
		return nil, err
	}
	archTok := p.cur
	if archTok.Kind != Ident {
		return nil, p.errorf(archTok.Span, "expected an architecture name, found %s %q", archTok.Kind, archTok.Literal)
	}
	if _, ok := validArch[archTok.Literal]; !ok {
		return nil, p.errorf(archTok.Span, "unknown architecture %q, expected one of x86_64, aarch64", archTok.Literal)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if _, err := p.expect(RBracket); err != nil {
		return nil, err
	}

	pattern, err := p.expectString()
	if err != nil {
		return nil, err
	}

	v := &VariantNode{
		OS:      StringLit{Value: osTok.Literal, Span: osTok.Span},
		Arch:    StringLit{Value: archTok.Literal, Span: archTok.Span},
		Pattern: pattern,
	}

	switch {
	case p.atKeyword("archive"):
		archive, err := p.parseArchive()
		if err != nil {
			return nil, err
		}
		v.Archive = archive
		v.Span = Span{Start: start, End: archive.Span.End}
	case p.atKeyword("as") || p.atKeyword("bin"):
		sf, err := p.parseSingleFile()
		if err != nil {
			return nil, err
		}
		v.SingleFile = sf
		v.Span = Span{Start: start, End: sf.Span.End}
	default:
		return nil, p.errorf(p.cur.Span, "expected %q, %q, or %q, found %s %q", "archive", "as", "bin", p.cur.Kind, p.cur.Literal)
	}

	return v, nil
}

func (p *Parser) parseArchive() (*ArchiveNode, error) {
	start := p.cur.Span.Start
	if _, err := p.expectKeyword("archive"); err != nil {
		return nil, err
	}
	if _, err := p.expect(LParen); err != nil {
		return nil, err
	}

	kindTok := p.cur
	if kindTok.Kind != Ident {
		return nil, p.errorf(kindTok.Span, "expected an archive kind, found %s %q", kindTok.Kind, kindTok.Literal)
	}
	if _, ok := validArchiveKind[kindTok.Literal]; !ok {
		return nil, p.errorf(kindTok.Span, "unknown archive kind %q, expected one of TarGz, TarXz, TarBz2, Zip", kindTok.Literal)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if _, err := p.expect(RParen); err != nil {
		return nil, err
	}
	if _, err := p.expect(LBrace); err != nil {
		return nil, err
	}

	var bins []BinNode
	for {
		b, err := p.parseBin()
		if err != nil {
			return nil, err
		}
		bins = append(bins, *b)
		if p.cur.Kind != Comma {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	end := p.cur.Span.End
	if _, err := p.expect(RBrace); err != nil {
		return nil, err
	}

	return &ArchiveNode{
		Kind: StringLit{Value: kindTok.Literal, Span: kindTok.Span},
		Bins: bins,
		Span: Span{Start: start, End: end},
	}, nil
}

func (p *Parser) parseBin() (*BinNode, error) {
	start := p.cur.Span.Start
	if _, err := p.expectKeyword("bin"); err != nil {
		return nil, err
	}
	pattern, err := p.expectString()
	if err != nil {
		return nil, err
	}

	b := &BinNode{Pattern: pattern, Span: Span{Start: start, End: pattern.Span.End}}
	if p.atKeyword("as") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		as, err := p.expectString()
		if err != nil {
			return nil, err
		}
		b.As = &as
		b.Span.End = as.Span.End
	}
	return b, nil
}

func (p *Parser) parseSingleFile() (*SingleFileNode, error) {
	start := p.cur.Span.Start
	// Either "as" or "bin" introduces the install name; the grammar treats
	// both spellings as equivalent here (unlike Bin, which always uses "bin").
	if p.atKeyword("as") {
		if err := p.advance(); err != nil {
			return nil, err
		}
	} else if _, err := p.expectKeyword("bin"); err != nil {
		return nil, err
	}
	name, err := p.expectString()
	if err != nil {
		return nil, err
	}
	return &SingleFileNode{InstallName: name, Span: Span{Start: start, End: name.Span.End}}, nil
}

var (
	validOS          = map[string]struct{}{"linux": {}, "windows": {}, "macos": {}}
	validArch        = map[string]struct{}{"x86_64": {}, "aarch64": {}}
	validArchiveKind = map[string]struct{}{"TarGz": {}, "TarXz": {}, "TarBz2": {}, "Zip": {}}
)
