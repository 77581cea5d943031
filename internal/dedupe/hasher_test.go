package dedupe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "hello world", Normalize("Hello,  World!"))
	assert.Equal(t, "patient seen on 01 15 2024", Normalize("Patient seen on 01/15/2024."))
	assert.Equal(t, "", Normalize("   \n\t "))
	assert.Equal(t, "", Normalize("!!! --- ***"))
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Hello,  World!",
		"MRN: 12345\nDOB: 03/04/1980\n\nAssessment & Plan",
		"",
		"already normalized text",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input: %q", in)
	}
}

func TestTextHashEqualityTracksNormalization(t *testing.T) {
	assert.Equal(t, TextHash("Hello, World!"), TextHash("hello   world"))
	assert.NotEqual(t, TextHash("hello world"), TextHash("hello worlds"))
}

func TestFingerprintEmptyInput(t *testing.T) {
	assert.Equal(t, uint64(0), Fingerprint(""))
	assert.Equal(t, uint64(0), Fingerprint("!!! ???"))
}

func TestFingerprintDeterministic(t *testing.T) {
	text := "Progress note: patient stable, continue current medications"
	assert.Equal(t, Fingerprint(text), Fingerprint(text))
	// punctuation and case differences vanish in normalization
	assert.Equal(t, Fingerprint(text), Fingerprint("PROGRESS NOTE  patient stable continue current medications"))
}

func TestSimilarityProperties(t *testing.T) {
	fp1 := Fingerprint("discharge summary for a long inpatient stay with complications")
	fp2 := Fingerprint("grocery list apples bananas coffee")

	assert.Equal(t, 1.0, Similarity(fp1, fp1))
	assert.Equal(t, 1.0, Similarity(fp2, fp2))
	assert.Equal(t, Similarity(fp1, fp2), Similarity(fp2, fp1))
	assert.Less(t, Similarity(fp1, fp2), 1.0)

	// bit-level contract: k flipped bits cost k/64
	var a uint64 = 0xFFFF_FFFF_FFFF_FFFF
	b := a ^ 0b111 // 3 bits apart
	assert.InDelta(t, 1.0-3.0/64.0, Similarity(a, b), 1e-9)
	assert.InDelta(t, 0.0, Similarity(0, a), 1e-9)
}

func TestFingerprintLocality(t *testing.T) {
	base := "chest radiograph two views frontal and lateral the lungs are clear " +
		"no focal consolidation pleural effusion or pneumothorax heart size normal " +
		"mediastinal contours unremarkable osseous structures intact impression no acute disease " +
		"comparison prior study dated three months earlier no interval change clinical history " +
		"cough and fever technique single exposure portable technique recommend follow up as indicated"
	edited := base + " minor motion artifact"

	fpBase := Fingerprint(base)
	fpEdited := Fingerprint(edited)
	// a handful of flipped bits at most; unrelated texts sit near 0.5
	assert.Greater(t, Similarity(fpBase, fpEdited), 0.7, "small edit should flip few bits")
}
