// SPDX-License-Identifier: AGPL-3.0-or-later

package languages

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/bash"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
	"github.com/smacker/go-tree-sitter/csharp"
	"github.com/smacker/go-tree-sitter/css"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/hcl"
	"github.com/smacker/go-tree-sitter/html"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/lua"
	"github.com/smacker/go-tree-sitter/php"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/ruby"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/toml"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
	"github.com/smacker/go-tree-sitter/yaml"
)

// row is one registry entry before compilation.
type row struct {
	name       string
	grammar    func() *sitter.Language
	extensions []string
	queries    []string
}

const commentQuery = "(comment) @comment"

// Adding a language means adding a row here. The first capture of every
// match is taken as the comment node.
var table = []row{
	{"bash", bash.GetLanguage, []string{"sh"}, []string{commentQuery}},
	{"c", c.GetLanguage, []string{"c", "h"}, []string{commentQuery}},
	{"c-sharp", csharp.GetLanguage, []string{"cs", "csx", "cake", "cshtml", "razor"}, []string{commentQuery}},
	{"cpp", cpp.GetLanguage, []string{"cpp", "hpp", "cc", "hh", "cxx", "hxx"}, []string{commentQuery}},
	{"css", css.GetLanguage, []string{"css"}, []string{commentQuery}},
	{"go", golang.GetLanguage, []string{"go"}, []string{commentQuery}},
	{"hcl", hcl.GetLanguage, []string{"hcl", "tf"}, []string{commentQuery}},
	{"html", html.GetLanguage, []string{"html", "htm"}, []string{commentQuery}},
	{"java", java.GetLanguage, []string{"java"}, []string{
		"(line_comment) @comment",
		"(block_comment) @comment",
	}},
	{"javascript", javascript.GetLanguage, []string{"js", "mjs"}, []string{commentQuery}},
	{"lua", lua.GetLanguage, []string{"lua"}, []string{commentQuery}},
	{"php", php.GetLanguage, []string{"php"}, []string{commentQuery}},
	{"python", python.GetLanguage, []string{"py"}, []string{
		commentQuery,
		// Docstrings: a leading string literal of a module, class or function body.
		"(module . (expression_statement (string) @comment))",
		"(class_definition body: (block . (expression_statement (string) @comment)))",
		"(function_definition body: (block . (expression_statement (string) @comment)))",
	}},
	{"ruby", ruby.GetLanguage, []string{"rb"}, []string{commentQuery}},
	{"rust", rust.GetLanguage, []string{"rs"}, []string{
		"(line_comment) @comment",
		"(block_comment) @comment",
	}},
	{"toml", toml.GetLanguage, []string{"toml"}, []string{commentQuery}},
	{"tsx", tsx.GetLanguage, []string{"tsx"}, []string{commentQuery}},
	{"typescript", typescript.GetLanguage, []string{"ts"}, []string{commentQuery}},
	{"yaml", yaml.GetLanguage, []string{"yaml", "yml"}, []string{commentQuery}},
}
