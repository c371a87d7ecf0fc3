package wordcloud

import (
	"reflect"
	"strings"
	"testing"
)

func TestTokenize(t *testing.T) {
	got := tokenize("今天天气 Hello world 123")
	want := []string{"今天", "天天", "天气", "hello", "world", "123"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tokenize = %v, want %v", got, want)
	}
}

func TestAnalyze(t *testing.T) {
	texts := []string{
		"天气不错",
		"天气很好",
		"hello hello 2024 a",
	}
	res := Analyze(texts, 10, nil)

	if res.TotalMessages != 3 {
		t.Errorf("期望 3 条消息, 实际 %d", res.TotalMessages)
	}
	if len(res.Words) == 0 {
		t.Fatal("结果不应为空")
	}
	// 天气 与 hello 都出现 2 次，字典序中 hello 在前
	if res.Words[0].Word != "hello" || res.Words[0].Count != 2 {
		t.Errorf("第一名期望 hello×2, 实际 %+v", res.Words[0])
	}
	if res.Words[1].Word != "天气" || res.Words[1].Count != 2 {
		t.Errorf("第二名期望 天气×2, 实际 %+v", res.Words[1])
	}
	for _, w := range res.Words {
		if w.Word == "2024" || w.Word == "a" {
			t.Errorf("纯数字和单字符应被过滤: %q", w.Word)
		}
	}
}

func TestAnalyze_CustomSegmenter(t *testing.T) {
	seg := SegmenterFunc(strings.Fields)
	res := Analyze([]string{"我们 出发 出发 ok! 可以"}, 1, seg)

	if len(res.Words) != 1 {
		t.Fatalf("limit=1 时应只返回 1 项, 实际 %d", len(res.Words))
	}
	if res.Words[0].Word != "出发" || res.Words[0].Count != 2 {
		t.Errorf("期望 出发×2, 实际 %+v", res.Words[0])
	}
	// 我们/可以 为停用词，ok! 含标点
	if res.TotalWords != 2 {
		t.Errorf("期望 2 个有效词, 实际 %d", res.TotalWords)
	}
}

func TestIsStopWord(t *testing.T) {
	if !IsStopWord("的") || !IsStopWord("没有") {
		t.Error("停用词判断错误")
	}
	if IsStopWord("天气") {
		t.Error("天气 不应是停用词")
	}
}
