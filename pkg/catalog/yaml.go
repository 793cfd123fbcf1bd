package catalog

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	queryErrors "github.com/binlog-hq/logq/pkg/query/errors"
)

var (
	catalogFields = []string{"version", "name", "description", "queries"}
	queryFields   = []string{"name", "description", "expression", "tags"}
)

// yamlLinePattern pulls the line number out of yaml.v3 syntax errors.
var yamlLinePattern = regexp.MustCompile(`line (\d+)`)

// yamlCatalog is the catalog document before validation.
type yamlCatalog struct {
	Version     string
	Name        string
	Description string
	Queries     []yamlQuery

	// Internal tracking
	node        *yaml.Node // Top-level mapping
	versionNode *yaml.Node
}

// yamlQuery is one entry of the queries sequence.
type yamlQuery struct {
	Name        string
	Description string
	Expression  string
	Tags        []string

	// Internal tracking
	node     *yaml.Node // Mapping node of the entry
	nameNode *yaml.Node
	exprNode *yaml.Node
	invalid  bool // Shape errors were recorded while decoding
}

// parseYAMLBytes decodes data into a yaml.Node tree. The returned line is
// the position reported by the YAML parser, or 1 when it gave none.
func parseYAMLBytes(data []byte) (*yaml.Node, int, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		line := 1
		if m := yamlLinePattern.FindStringSubmatch(err.Error()); m != nil {
			if n, convErr := strconv.Atoi(m[1]); convErr == nil {
				line = n
			}
		}
		return nil, line, err
	}
	return &node, 0, nil
}

// decodeCatalog walks the document tree by hand instead of decoding into
// tagged structs so that every field keeps its node for error positions.
// Shape problems are recorded on b; the result holds whatever could be read.
func (b *builder) decodeCatalog(doc *yaml.Node) *yamlCatalog {
	raw := &yamlCatalog{}

	if doc.Kind == yaml.DocumentNode {
		if len(doc.Content) == 0 {
			b.structural(nil, "catalog is empty", "Add a 'queries' list")
			return raw
		}
		doc = doc.Content[0]
	}
	raw.node = doc

	if doc.Kind != yaml.MappingNode {
		b.structural(doc, "catalog must be a mapping", "Start the file with 'version: \"1\"' and a 'queries' list")
		return raw
	}

	for i := 0; i+1 < len(doc.Content); i += 2 {
		key, value := doc.Content[i], doc.Content[i+1]
		switch key.Value {
		case "version":
			raw.Version = b.scalar(key.Value, value)
			raw.versionNode = value
		case "name":
			raw.Name = b.scalar(key.Value, value)
		case "description":
			raw.Description = b.scalar(key.Value, value)
		case "queries":
			raw.Queries = b.decodeQueries(value)
		default:
			b.unknownField(key, catalogFields)
		}
	}

	return raw
}

func (b *builder) decodeQueries(node *yaml.Node) []yamlQuery {
	if isNull(node) {
		return nil
	}
	if node.Kind != yaml.SequenceNode {
		b.structural(node, "'queries' must be a list", "Write each query as a list item starting with '- name:'")
		return nil
	}

	queries := make([]yamlQuery, 0, len(node.Content))
	for _, item := range node.Content {
		if item.Kind != yaml.MappingNode {
			b.structural(item, "query entry must be a mapping", "Each query needs 'name' and 'expression' fields")
			continue
		}

		q := yamlQuery{node: item}
		before := b.errors.Count()
		for i := 0; i+1 < len(item.Content); i += 2 {
			key, value := item.Content[i], item.Content[i+1]
			switch key.Value {
			case "name":
				q.Name = b.scalar(key.Value, value)
				q.nameNode = value
			case "description":
				q.Description = b.scalar(key.Value, value)
			case "expression":
				q.Expression = b.scalar(key.Value, value)
				q.exprNode = value
			case "tags":
				if !isNull(value) {
					if err := value.Decode(&q.Tags); err != nil {
						b.structural(value, "'tags' must be a list of strings", "")
					}
				}
			default:
				b.unknownField(key, queryFields)
			}
		}
		q.invalid = b.errors.Count() > before
		queries = append(queries, q)
	}
	return queries
}

// scalar returns the string value of node, recording a structural error
// when node is a mapping or sequence.
func (b *builder) scalar(field string, node *yaml.Node) string {
	if isNull(node) {
		return ""
	}
	if node.Kind != yaml.ScalarNode {
		b.structural(node, fmt.Sprintf("'%s' must be a string", field), "")
		return ""
	}
	return blockValue(node)
}

func (b *builder) unknownField(key *yaml.Node, valid []string) {
	suggestion := queryErrors.SuggestKeyword(key.Value, valid)
	if !strings.HasPrefix(suggestion, "Did you mean") {
		suggestion = "Valid fields: " + strings.Join(valid, ", ")
	}
	b.structural(key, fmt.Sprintf("unknown field '%s'", key.Value), suggestion)
}

func isNull(node *yaml.Node) bool {
	return node == nil || (node.Kind == yaml.ScalarNode && node.Tag == "!!null")
}

// expressionLocation maps the start of an expression scalar to a source
// position. The second result reports whether byte offsets inside the
// expression can be added to the column, which holds only for scalars
// written on one line.
func expressionLocation(source string, node *yaml.Node) (queryErrors.Location, bool) {
	loc := queryErrors.Location{File: source, Line: node.Line, Column: node.Column}

	switch node.Style {
	case yaml.LiteralStyle, yaml.FoldedStyle:
		return loc, false
	case yaml.DoubleQuotedStyle, yaml.SingleQuotedStyle:
		// Column points at the opening quote
		loc.Column++
		return loc, !strings.ContainsRune(node.Value, '\n')
	default:
		return loc, !strings.ContainsRune(node.Value, '\n')
	}
}

// blockValue strips the single trailing newline that clip chomping adds
// to literal and folded scalars.
func blockValue(node *yaml.Node) string {
	if node.Style == yaml.LiteralStyle || node.Style == yaml.FoldedStyle {
		return strings.TrimSuffix(node.Value, "\n")
	}
	return node.Value
}
