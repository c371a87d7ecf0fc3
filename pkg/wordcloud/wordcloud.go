package wordcloud

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Result 词频统计结果
type Result struct {
	TotalMessages int         `json:"totalMessages"`
	TotalWords    int         `json:"totalWords"`
	Words         []*WordItem `json:"words"`
}

// WordItem 词频项
type WordItem struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// Segmenter 把一段文本切分成词。
// 中文分词器属于外部能力，默认使用二元组切分，可以替换为真正的分词实现。
type Segmenter interface {
	Segment(text string) []string
}

// SegmenterFunc 允许普通函数作为 Segmenter 使用
type SegmenterFunc func(text string) []string

func (f SegmenterFunc) Segment(text string) []string { return f(text) }

// Bigram 默认分词器：中文按二元组切分，英文和数字按连续片段切分
var Bigram Segmenter = SegmenterFunc(tokenize)

// 中文停用词表
var stopWords = map[string]bool{
	"的": true, "了": true, "是": true, "在": true, "我": true,
	"你": true, "他": true, "她": true, "它": true, "们": true,
	"这": true, "那": true, "有": true, "和": true, "就": true,
	"不": true, "也": true, "都": true, "要": true, "会": true,
	"一": true, "着": true, "好": true, "哟": true, "嘿": true,
	"可以": true, "没有": true, "什么": true, "一个": true, "我们": true,
	"自己": true, "他们": true, "没": true, "很": true, "到": true,
	"说": true, "对": true, "吗": true, "啊": true, "呢": true,
	"吧": true, "嗯": true, "哦": true, "哈": true, "呀": true,
	"嘛": true, "哎": true, "唉": true, "喔": true, "噢": true,
	"把": true, "被": true, "让": true, "给": true, "从": true,
	"去": true, "来": true, "上": true, "下": true, "里": true,
	"中": true, "大": true, "小": true, "多": true, "少": true,
	"个": true, "人": true, "还": true, "能": true, "做": true,
	"看": true, "想": true, "知道": true, "时候": true, "现在": true,
	"因为": true, "所以": true, "但是": true, "如果": true, "这个": true,
	"那个": true, "已经": true, "可能": true, "应该": true, "怎么": true,
	"为什么": true, "这样": true, "那样": true, "一下": true, "一些": true,
	"然后": true, "或者": true, "而且": true, "虽然": true, "不过": true,
	"只是": true, "其实": true, "觉得": true, "比较": true, "一样": true,
}

// IsStopWord 判断是否为停用词
func IsStopWord(w string) bool {
	return stopWords[w]
}

// Analyze 对文本列表进行词频统计，seg 为 nil 时使用二元组切分
func Analyze(texts []string, limit int, seg Segmenter) *Result {
	if limit <= 0 {
		limit = 100
	}
	if seg == nil {
		seg = Bigram
	}

	freq := make(map[string]int)
	totalWords := 0

	for _, text := range texts {
		for _, w := range seg.Segment(text) {
			w = strings.TrimSpace(w)
			if !keep(w) {
				continue
			}
			freq[w]++
			totalWords++
		}
	}

	// 转为切片并排序，次数相同按字典序保证结果稳定
	items := make([]*WordItem, 0, len(freq))
	for word, count := range freq {
		items = append(items, &WordItem{Word: word, Count: count})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count != items[j].Count {
			return items[i].Count > items[j].Count
		}
		return items[i].Word < items[j].Word
	})

	if len(items) > limit {
		items = items[:limit]
	}

	return &Result{
		TotalMessages: len(texts),
		TotalWords:    totalWords,
		Words:         items,
	}
}

// keep 过滤规则：至少两个字符、非停用词、非纯数字、只包含字母或数字
func keep(w string) bool {
	if utf8.RuneCountInString(w) < 2 || stopWords[w] {
		return false
	}
	allDigit := true
	for _, r := range w {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
		if !unicode.IsDigit(r) {
			allDigit = false
		}
	}
	return !allDigit
}

// tokenize 对文本进行简单分词
// 使用二元组（bigram）方式提取中文词汇，同时提取英文单词
func tokenize(text string) []string {
	var words []string
	var chineseRunes []rune
	var englishWord strings.Builder

	flushEnglish := func() {
		if englishWord.Len() > 0 {
			words = append(words, strings.ToLower(englishWord.String()))
			englishWord.Reset()
		}
	}

	for _, r := range text {
		if isChinese(r) {
			flushEnglish()
			chineseRunes = append(chineseRunes, r)
			continue
		}

		// 处理累积的中文字符，提取二元组
		words = append(words, extractBigrams(chineseRunes)...)
		chineseRunes = chineseRunes[:0]

		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			englishWord.WriteRune(r)
		} else {
			flushEnglish()
		}
	}

	// 处理末尾
	words = append(words, extractBigrams(chineseRunes)...)
	flushEnglish()

	return words
}

// extractBigrams 从中文字符序列中提取二元组
func extractBigrams(runes []rune) []string {
	if len(runes) < 2 {
		return nil
	}
	var bigrams []string
	for i := 0; i < len(runes)-1; i++ {
		bigrams = append(bigrams, string(runes[i:i+2]))
	}
	return bigrams
}

// isChinese 判断是否为中文字符
func isChinese(r rune) bool {
	return unicode.Is(unicode.Han, r)
}
