package paraphrase

import (
	"fmt"
	"strings"
)

// fallbackTemplates back the deterministic manual paraphrase. Each one
// names the keyword.
var fallbackTemplates = []string{
	"%s dapat didefinisikan sebagai konsep yang memiliki karakteristik dan dimensi spesifik dalam konteks akademik.",
	"Konsep %s mencakup berbagai aspek yang saling berkaitan dan membentuk pemahaman komprehensif.",
	"Dalam implementasinya, %s memerlukan pendekatan yang sistematis dan terstruktur.",
	"Pemahaman mendalam tentang %s sangat penting untuk pengembangan teoretis maupun praktis.",
	"Aplikasi %s dalam berbagai domain menunjukkan relevansi dan signifikansinya dalam konteks kontemporer.",
}

// additionalTemplates fill cleanup shortfalls, keyed by 1-based position.
var additionalTemplates = map[int]string{
	2: "Konsep %s ini memiliki aplikasi yang luas dalam berbagai bidang terkait.",
	3: "Implementasi %s memerlukan pemahaman mendalam tentang prinsip-prinsip dasarnya.",
	4: "Dalam konteks akademis, %s sering menjadi fokus penelitian interdisipliner.",
	5: "Pengembangan %s terus mengalami evolusi seiring dengan kemajuan teknologi dan metodologi.",
}

const closingTemplate = "Pemahaman terhadap %s sangat penting dalam pengembangan ilmu pengetahuan modern."

// Fallback returns the first n manual templates for keyword, in order,
// each starting with a capital letter. n is clamped to the number of
// templates.
func Fallback(keyword string, n int) string {
	n = min(max(n, MinSentences), len(fallbackTemplates))
	kw := strings.TrimSpace(keyword)
	out := make([]string, n)
	for i := range out {
		out[i] = finishSentence(fmt.Sprintf(fallbackTemplates[i], kw))
	}
	return strings.Join(out, " ")
}

// AdditionalSentence returns the filler sentence for a 1-based position,
// or the generic closing sentence when the position has no template.
func AdditionalSentence(keyword string, position int) string {
	tmpl, ok := additionalTemplates[position]
	if !ok {
		tmpl = closingTemplate
	}
	return fmt.Sprintf(tmpl, strings.TrimSpace(keyword))
}
