package chronology

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/recordstack/chronology/constants"
)

func TestClassifyRules(t *testing.T) {
	tests := []struct {
		name      string
		before    string
		after     string
		wantClass constants.Classification
		wantConf  float32
	}{
		{"service label before", "Date of Service: ", "", constants.ClassDateOfService, 0.9},
		{"visit date label", "Visit Date ", "", constants.ClassDateOfService, 0.9},
		{"admission date label", "Admission Date: ", "", constants.ClassDateOfService, 0.9},
		{"dos abbreviation", "DOS: ", "", constants.ClassDateOfService, 0.9},
		{"procedure date label", "Procedure Date ", "", constants.ClassDateOfService, 0.9},
		{"dob label", "Date of Birth: ", "", constants.ClassDateOfBirth, 0.95},
		{"dob abbreviation", "DOB: ", "", constants.ClassDateOfBirth, 0.95},
		{"born", "Patient born ", "", constants.ClassDateOfBirth, 0.95},
		{"fax before", "Fax transmission ", "", constants.ClassFax, 0.8},
		{"fax after", "", " sent via fax", constants.ClassFax, 0.8},
		{"transmitted", "Transmitted ", "", constants.ClassFax, 0.8},
		{"sent colon", "Sent: ", "", constants.ClassFax, 0.8},
		{"service label after", "", " date of service", constants.ClassDateOfService, 0.7},
		{"nothing", "random words ", " more words", constants.ClassUnknown, 0.0},
		{"empty windows", "", "", constants.ClassUnknown, 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			class, conf := Classify(tt.before, tt.after)
			assert.Equal(t, tt.wantClass, class)
			assert.InDelta(t, tt.wantConf, conf, 1e-6)
		})
	}
}

func TestClassifyPrecedence(t *testing.T) {
	// service indicator in before outranks everything else present
	class, conf := Classify("DOB: 01/01/1990 Date of Service: ", " fax received")
	assert.Equal(t, constants.ClassDateOfService, class)
	assert.InDelta(t, 0.9, conf, 1e-6)

	// DOB in before outranks fax
	class, _ = Classify("Date of Birth ", " via fax")
	assert.Equal(t, constants.ClassDateOfBirth, class)

	// fax outranks a trailing service label
	class, conf = Classify("fax ", " visit date")
	assert.Equal(t, constants.ClassFax, class)
	assert.InDelta(t, 0.8, conf, 1e-6)
}
