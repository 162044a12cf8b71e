package paraphrase

import (
	"fmt"
	"strings"
)

var countWords = []string{"", "satu kalimat", "dua kalimat", "tiga kalimat", "empat kalimat", "lima kalimat"}

// sentencePlan describes what each position of the paraphrase should carry.
var sentencePlan = []string{
	"Kalimat 1: Definisi inti dengan struktur berbeda",
	"Kalimat 2: Elaborasi atau karakteristik utama",
	"Kalimat 3: Fungsi atau penerapan praktis",
	"Kalimat 4: Konteks atau domain penggunaan",
	"Kalimat 5: Signifikansi atau implikasi",
}

func countText(n int) string {
	if n > 0 && n < len(countWords) {
		return countWords[n]
	}
	return fmt.Sprintf("%d kalimat", n)
}

// BuildPrompt renders the paraphrase instruction for n sentences. Only the
// first n lines of the sentence plan are included.
func BuildPrompt(source, keyword, context string, n int) string {
	var plan strings.Builder
	for i := 0; i < n && i < len(sentencePlan); i++ {
		plan.WriteString("   - ")
		plan.WriteString(sentencePlan[i])
		plan.WriteByte('\n')
	}

	return fmt.Sprintf(`Anda adalah ahli linguistik dan parafrase tingkat professor dengan keahlian dalam bahasa Indonesia akademis. Tugas Anda adalah memparafrase definisi berikut dengan presisi tinggi.

DEFINISI ASLI:
"%s"

KATA KUNCI: %s
KONTEKS: %s

INSTRUKSI PARAFRASE ADVANCED:
1. Buat parafrase TEPAT %d kalimat (%s)
2. Setiap kalimat harus utuh dan bermakna lengkap
3. Gunakan variasi struktur kalimat yang sophisticated:
%s
4. Gunakan transformasi linguistik:
   - Ubah struktur aktif-pasif
   - Variasi sinonim akademik
   - Reorder klausa subordinat
   - Nominalisasi/denominalisasi strategis

5. Pertahankan register akademik Indonesia yang natural
6. Pastikan kohesi antar kalimat dengan penanda wacana yang tepat
7. JANGAN gunakan kata "saya", "kami", "kita" atau referensi diri
8. JANGAN jelaskan proses parafrase
9. LANGSUNG berikan hasil parafrase %d kalimat

HASIL PARAFRASE (%s):`,
		strings.TrimSpace(source), strings.TrimSpace(keyword), strings.TrimSpace(context),
		n, countText(n), plan.String(), n, countText(n))
}

// buildNotFoundPrompt asks for an n-sentence explanation of a missing
// definition.
func buildNotFoundPrompt(keyword, filename string, n int) string {
	return fmt.Sprintf(`Buatlah penjelasan akademis dalam bahasa Indonesia untuk situasi di mana definisi kata kunci tidak ditemukan dalam dokumen.

KATA KUNCI: "%s"
NAMA FILE: "%s"
JUMLAH KALIMAT: %d

Buat penjelasan yang:
1. TEPAT %d kalimat
2. Profesional dan akademis
3. Menjelaskan hasil analisis yang telah dilakukan
4. Menyarankan kemungkinan penyebab
5. Memberikan kontribusi akademis

PENJELASAN (%d kalimat):`, keyword, filename, n, n, n)
}
