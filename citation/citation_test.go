package citation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const para = "Inflasi adalah kenaikan harga."

func TestLastName(t *testing.T) {
	p := DefaultNameParser{}
	tests := []struct {
		author string
		want   string
	}{
		{"Smith, J. D.", "Smith"},
		{"John Doe Smith", "Smith"},
		{"  Santoso  ", "Santoso"},
		{"Lee,A.", "Lee"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.author, func(t *testing.T) {
			assert.Equal(t, tt.want, p.LastName(tt.author))
		})
	}
}

func TestAuthors(t *testing.T) {
	p := DefaultNameParser{}
	tests := []struct {
		raw  string
		want []string
	}{
		{"Smith, J. D.", []string{"Smith, J. D."}},
		{"Lee, A. & Kim, B.", []string{"Lee, A.", "Kim, B."}},
		{"Anna Lee dan Budi Santoso", []string{"Anna Lee", "Budi Santoso"}},
		{"Anna Lee and Budi Santoso; Citra Dewi", []string{"Anna Lee", "Budi Santoso", "Citra Dewi"}},
		{"Smith, Jones, Brown", []string{"Smith", "Jones", "Brown"}},
		{"Smith, J., Doe, A.", []string{"Smith, J.", "Doe, A."}},
		{"Smith, John", []string{"Smith, John"}},
		{"Li, Wu, Chen", []string{"Li", "Wu", "Chen"}},
		{"Smith, J., Xu, Ng", []string{"Smith, J.", "Xu", "Ng"}},
		{"Dupont, J.-P., Ho, A.B.", []string{"Dupont, J.-P.", "Ho, A.B."}},
		{"King, M., Jr.", []string{"King, M., Jr."}},
		{" & , ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Authors(tt.raw))
		})
	}
}

func TestCite(t *testing.T) {
	tests := []struct {
		name   string
		author string
		year   int
		format string
		want   []string
	}{
		{
			name:   "APA single author",
			author: "Smith, J. D.",
			year:   2020,
			format: "APA",
			want: []string{
				"Menurut Smith (2020), inflasi adalah kenaikan harga.",
				"Inflasi adalah kenaikan harga (Smith, 2020).",
			},
		},
		{
			name:   "APA two authors uses conjunction not et al",
			author: "Lee, A. & Kim, B.",
			year:   2021,
			format: "APA",
			want: []string{
				"Menurut Lee dan Kim (2021), inflasi adalah kenaikan harga.",
				"Inflasi adalah kenaikan harga (Lee & Kim, 2021).",
			},
		},
		{
			name:   "APA three authors",
			author: "A Satu, B Dua, C Tiga",
			year:   2019,
			format: "apa",
			want: []string{
				"Menurut Satu et al. (2019), inflasi adalah kenaikan harga.",
				"Inflasi adalah kenaikan harga (Satu et al., 2019).",
			},
		},
		{
			name:   "APA short surnames are separate authors",
			author: "Li, Wu, Chen",
			year:   2020,
			format: "APA",
			want: []string{
				"Menurut Li et al. (2020), inflasi adalah kenaikan harga.",
				"Inflasi adalah kenaikan harga (Li et al., 2020).",
			},
		},
		{
			name:   "MLA single author",
			author: "John Doe Smith",
			year:   2020,
			format: "MLA",
			want:   []string{"Inflasi adalah kenaikan harga (Smith 2020)."},
		},
		{
			name:   "MLA two authors",
			author: "Lee, A. & Kim, B.",
			year:   2021,
			format: "mla",
			want:   []string{"Inflasi adalah kenaikan harga (Lee dan Kim 2021)."},
		},
		{
			name:   "MLA three authors",
			author: "A Satu, B Dua, C Tiga",
			year:   2019,
			format: "MLA",
			want:   []string{"Inflasi adalah kenaikan harga (Satu et al. 2019)."},
		},
		{
			name:   "Chicago",
			author: "Smith, J. D.",
			year:   2020,
			format: "Chicago",
			want:   []string{"Menurut Smith (2020), inflasi adalah kenaikan harga."},
		},
		{
			name:   "unknown format names first author only",
			author: "Lee, A. & Kim, B.",
			year:   2021,
			format: "harvard",
			want:   []string{"Menurut Lee (2021), inflasi adalah kenaikan harga."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Cite(para, tt.author, tt.year, tt.format))
		})
	}
}

func TestCiteUnparsableAuthorFallsBackToRaw(t *testing.T) {
	got := Cite(para, "&", 2020, "CHICAGO")
	assert.Equal(t, []string{"Menurut & (2020), inflasi adalah kenaikan harga."}, got)
}

type upperNames struct{ DefaultNameParser }

func (upperNames) LastName(a string) string { return "X" + a }

func TestFormatterUsesInjectedParser(t *testing.T) {
	f := NewFormatter(upperNames{})
	got := f.Cite(para, "Budi", 2022, "CHICAGO")
	assert.Equal(t, []string{"Menurut XBudi (2022), inflasi adalah kenaikan harga."}, got)
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, APA, ParseFormat(""))
	assert.Equal(t, APA, ParseFormat("unknown"))
	assert.Equal(t, MLA, ParseFormat(" mla "))
	assert.Equal(t, Chicago, ParseFormat("Chicago"))
	assert.False(t, Format("HARVARD").Known())
}

func TestFormatTitle(t *testing.T) {
	assert.Equal(t, "Machine Learning Basics", FormatTitle("machine_learning-basics.PDF"))
	assert.Equal(t, "Laporan Akhir", FormatTitle("laporan__akhir.docx"))
	assert.Equal(t, "ReLU Aktivasi", FormatTitle("ReLU aktivasi.txt"))
	assert.Equal(t, "Catatan O'brien", FormatTitle("catatan_o'brien.pdf"))
}

func TestBibliography(t *testing.T) {
	tests := []struct {
		format string
		want   []string
	}{
		{"APA", []string{
			"Budi Santoso (2020). Ekonomi Makro. Dokumen Akademik.",
			"Budi Santoso (2020). Ekonomi Makro. Materi Perkuliahan.",
			"Budi Santoso (2020). Ekonomi Makro. Sumber Referensi Akademik.",
		}},
		{"MLA", []string{
			`Budi Santoso. "Ekonomi Makro." Dokumen Akademik, 2020.`,
			`Budi Santoso. "Ekonomi Makro." Materi Perkuliahan, 2020.`,
		}},
		{"chicago", []string{
			`Budi Santoso. "Ekonomi Makro." Dokumen Akademik, 2020.`,
			`Budi Santoso. "Ekonomi Makro." Sumber Referensi, 2020.`,
		}},
		{"IEEE", []string{
			"Budi Santoso (2020). Ekonomi Makro. Dokumen Akademik.",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			assert.Equal(t, tt.want, Bibliography("ekonomi-makro.pdf", "Budi Santoso", 2020, tt.format))
		})
	}
}

func TestBibliographyAuthorEndingInPeriod(t *testing.T) {
	got := Bibliography("a.txt", "Smith, J.", 2020, "MLA")
	assert.Equal(t, `Smith, J. "A." Dokumen Akademik, 2020.`, got[0])
}

func TestSelectBestCitation(t *testing.T) {
	assert.Equal(t, "", SelectBestCitation(nil))
	assert.Equal(t, "Menurut A (2020), x", SelectBestCitation([]string{"X (A, 2020).", "Menurut A (2020), x"}))
	assert.Equal(t, "Berdasarkan A, x", SelectBestCitation([]string{"X (A 2020).", "Berdasarkan A, x"}))
	assert.Equal(t, "X (A 2020).", SelectBestCitation([]string{"X (A 2020).", "Y (B 2021)."}))
}

func TestSelectBestBibliography(t *testing.T) {
	assert.Equal(t, "", SelectBestBibliography(nil))
	assert.Equal(t, "b Dokumen Akademik.", SelectBestBibliography([]string{"a Materi.", "b Dokumen Akademik."}))
	assert.Equal(t, "a Materi.", SelectBestBibliography([]string{"a Materi.", "b Sumber."}))
}
