package mood

import (
	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
)

const (
	// DocumentType root node type tag
	// DocumentType 文档根节点类型
	DocumentType = "doc"
	// MarkerType node type carrying attrs.mood
	// MarkerType 携带 attrs.mood 的节点类型
	MarkerType = "moodBlock"
	// MaxDepth deepest node level accepted below the root
	// MaxDepth 根节点以下允许的最大嵌套层级
	MaxDepth = 64
)

var (
	ErrNotDocument     = errors.New("mood: value is not a document")
	ErrDocumentTooDeep = errors.New("mood: document nesting exceeds max depth")
)

// NodeKind node variant
// NodeKind 节点类别
type NodeKind uint8

const (
	KindContainer NodeKind = iota
	KindMoodMarker
	KindDocument
)

// Node one node of an entry document. Mood is set only on marker nodes
// whose mood attribute is valid.
// Node 文档节点，仅当标记节点的 mood 属性合法时 Mood 才有值
type Node struct {
	Kind     NodeKind
	Type     string
	Mood     Mood
	Children []*Node
}

// Document root of an entry document
// Document 文档根节点
type Document struct {
	Children []*Node
}

// Kind always KindDocument
func (d *Document) Kind() NodeKind {
	return KindDocument
}

// NewDocument builds a document from top-level nodes
// NewDocument 由顶层节点构造文档
func NewDocument(children ...*Node) *Document {
	if children == nil {
		children = []*Node{}
	}
	return &Document{Children: children}
}

// Container generic node such as a paragraph or text
// Container 普通节点（段落、文本等）
func Container(nodeType string, children ...*Node) *Node {
	return &Node{Kind: KindContainer, Type: nodeType, Children: children}
}

// Marker mood marker node. An invalid mood is dropped.
// Marker 心情标记节点，非法心情会被忽略
func Marker(m Mood, children ...*Node) *Node {
	n := &Node{Kind: KindMoodMarker, Type: MarkerType, Children: children}
	if m.IsValid() {
		n.Mood = m
	}
	return n
}

// IsDocument reports whether a decoded JSON value looks like
// {"type":"doc","content":[...]}
// IsDocument 判断解码后的 JSON 值是否为合法文档
func IsDocument(v any) bool {
	obj, ok := v.(map[string]any)
	if !ok || obj == nil {
		return false
	}
	if t, _ := obj["type"].(string); t != DocumentType {
		return false
	}
	_, ok = obj["content"].([]any)
	return ok
}

// ParseDocument converts a decoded JSON value into a Document.
// Malformed child nodes are skipped, never reported.
// ParseDocument 将解码后的 JSON 值转换为文档，格式错误的子节点会被跳过
func ParseDocument(v any) (*Document, error) {
	if !IsDocument(v) {
		return nil, ErrNotDocument
	}
	raw := v.(map[string]any)["content"].([]any)
	children, err := parseNodes(raw, 1)
	if err != nil {
		return nil, err
	}
	return &Document{Children: children}, nil
}

// DecodeDocument decodes JSON bytes and parses the document
// DecodeDocument 解码 JSON 字节并解析文档
func DecodeDocument(data []byte) (*Document, error) {
	var v any
	if err := sonic.Unmarshal(data, &v); err != nil {
		return nil, errors.Wrap(err, "mood: decode document")
	}
	return ParseDocument(v)
}

func parseNodes(raw []any, depth int) ([]*Node, error) {
	if depth > MaxDepth {
		return nil, ErrDocumentTooDeep
	}
	nodes := make([]*Node, 0, len(raw))
	for _, item := range raw {
		obj, ok := item.(map[string]any)
		if !ok || obj == nil {
			continue
		}
		n := parseNode(obj)
		if rawChildren, ok := obj["content"].([]any); ok && len(rawChildren) > 0 {
			children, err := parseNodes(rawChildren, depth+1)
			if err != nil {
				return nil, err
			}
			n.Children = children
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func parseNode(obj map[string]any) *Node {
	t, _ := obj["type"].(string)
	if t != MarkerType {
		return &Node{Kind: KindContainer, Type: t}
	}

	n := &Node{Kind: KindMoodMarker, Type: t}
	attrs, ok := obj["attrs"].(map[string]any)
	if !ok {
		return n
	}
	if s, ok := attrs["mood"].(string); ok {
		if m, ok := ParseMood(s); ok {
			n.Mood = m
		}
	}
	return n
}
