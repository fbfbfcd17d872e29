package mood

import (
	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
)

// Result moods derived from one document. Dominant is empty when Moods is empty.
// Result 文档提取结果，Moods 为空时 Dominant 为空
type Result struct {
	Moods    []Mood
	Dominant Mood
}

// HasDominant reports whether a dominant mood was found
func (r Result) HasDominant() bool {
	return r.Dominant != ""
}

func emptyResult() Result {
	return Result{Moods: []Mood{}}
}

type frame struct {
	node  *Node
	depth int
}

// ExtractMoods walks the document in pre-order and returns the distinct moods
// in order of first occurrence. Subtrees deeper than MaxDepth are not visited.
// ExtractMoods 先序遍历文档，按首次出现顺序返回去重后的心情
func ExtractMoods(doc *Document) []Mood {
	out := []Mood{}
	if doc == nil {
		return out
	}

	seen := make(map[Mood]struct{}, len(all))
	stack := make([]frame, 0, len(doc.Children))
	push := func(children []*Node, depth int) {
		if depth > MaxDepth {
			return
		}
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: children[i], depth: depth})
		}
	}

	push(doc.Children, 1)
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.node == nil {
			continue
		}
		if f.node.Kind == KindMoodMarker && f.node.Mood.IsValid() {
			if _, ok := seen[f.node.Mood]; !ok {
				seen[f.node.Mood] = struct{}{}
				out = append(out, f.node.Mood)
			}
		}
		push(f.node.Children, f.depth+1)
	}
	return out
}

// DominantMood returns the most frequent mood. On a tie the mood that reached
// the top count first while scanning left to right wins. Empty values are not
// counted.
// DominantMood 返回出现次数最多的心情，并列时取从左到右扫描中最先达到最大次数者
func DominantMood(moods []Mood) (Mood, bool) {
	var best Mood
	bestCount := 0
	counts := make(map[Mood]int, len(all))
	for _, m := range moods {
		if m == "" {
			continue
		}
		counts[m]++
		if counts[m] > bestCount {
			best, bestCount = m, counts[m]
		}
	}
	return best, bestCount > 0
}

// Process extracts moods and the dominant mood from a parsed document
// Process 从已解析文档中提取心情及主导心情
func Process(doc *Document) Result {
	moods := ExtractMoods(doc)
	dominant, _ := DominantMood(moods)
	return Result{Moods: moods, Dominant: dominant}
}

// ProcessContent accepts any decoded JSON value. Values that are not a
// well-formed document give an empty result.
// ProcessContent 接受任意解码后的 JSON 值，非法文档返回空结果
func ProcessContent(v any) Result {
	doc, err := ParseDocument(v)
	if err != nil {
		return emptyResult()
	}
	return Process(doc)
}

// ProcessJSON is the strict form used on write paths: JSON that is not a
// document gives an empty result, while undecodable input or a document
// nested beyond MaxDepth is an error.
// ProcessJSON 写入路径使用：非文档 JSON 返回空结果，无法解码或超出深度返回错误
func ProcessJSON(data []byte) (Result, error) {
	var v any
	if err := sonic.Unmarshal(data, &v); err != nil {
		return emptyResult(), errors.Wrap(err, "mood: decode content")
	}
	doc, err := ParseDocument(v)
	if errors.Is(err, ErrNotDocument) {
		return emptyResult(), nil
	}
	if err != nil {
		return emptyResult(), err
	}
	return Process(doc), nil
}
