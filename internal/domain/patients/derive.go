package patients

import (
	"math"
	"time"
)

// AgeYears returns completed years between birthDate and now, accounting
// for whether the birthday has been reached in the current year.
func AgeYears(birthDate, now time.Time) int {
	years := now.Year() - birthDate.Year()
	beforeBirthday := int(now.Month()) < int(birthDate.Month()) ||
		(now.Month() == birthDate.Month() && now.Day() < birthDate.Day())
	if beforeBirthday {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

// ComputeBMI returns the body mass index rounded to 2 decimals and the
// corresponding nutritional status. Returns false when weight or height
// is not positive.
func ComputeBMI(weightKg, heightM float64) (float64, string, bool) {
	if weightKg <= 0 || heightM <= 0 {
		return 0, "", false
	}
	bmi := weightKg / (heightM * heightM)
	return math.Round(bmi*100) / 100, classifyBMI(bmi), true
}

// classifyBMI uses half-open ranges so values like 24.95 fall in the
// band below rather than skipping to morbid obesity.
func classifyBMI(bmi float64) string {
	switch {
	case bmi < 16:
		return StatusUndernourished
	case bmi < 25:
		return StatusNormal
	case bmi < 30:
		return StatusMildObesity
	case bmi < 35:
		return StatusModerateObesity
	default:
		return StatusMorbidObesity
	}
}

// derive fills the computed fields on a patient record. Weight and height
// must both be present for BMI; otherwise the derived fields are cleared
// so a removed measurement does not leave a stale classification.
func derive(p *Patient, now time.Time) {
	p.Age = AgeYears(p.BirthDate, now)
	if p.WeightKg != nil && p.HeightM != nil {
		if bmi, status, ok := ComputeBMI(*p.WeightKg, *p.HeightM); ok {
			p.BMI = &bmi
			p.NutritionalStatus = &status
			return
		}
	}
	p.BMI = nil
	p.NutritionalStatus = nil
}
