package vitals

import (
	"fmt"
	"math"
	"sort"
	"strconv"
)

// Level classifies why an advisory fired.
type Level string

const (
	LevelElevated    Level = "elevated"
	LevelLow         Level = "low"
	LevelHigh        Level = "high"
	LevelGain        Level = "gain"
	LevelLoss        Level = "loss"
	LevelFever       Level = "fever"
	LevelBelowNormal Level = "below_normal"
)

// Thresholds used by the advisory rules. Temperatures are in °C, weight in kg.
const (
	bloodPressureHigh   = 140.0
	bloodPressureLow    = 90.0
	heartRateHigh       = 100.0
	heartRateLow        = 60.0
	bloodSugarHigh      = 140.0
	bloodSugarLow       = 70.0
	weightChangeLimit   = 2.0
	temperatureHigh     = 37.5
	temperatureLow      = 36.0
	oxygenSaturationLow = 95.0
)

// Advisory is a recommendation produced by a single threshold rule.
type Advisory struct {
	Kind    Kind   `json:"kind"`
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Advice is the ordered result of Advise.
type Advice []Advisory

// Messages returns the plain advisory strings in evaluation order.
func (a Advice) Messages() []string {
	out := make([]string, 0, len(a))
	for _, adv := range a {
		out = append(out, adv.Message)
	}
	return out
}

// Advise evaluates the threshold rules for every kind present in measurements.
// Input order does not matter except as the tie-break between readings that share
// a timestamp: the earlier entry in the slice counts as more recent.
// Advise does not modify measurements.
func Advise(measurements []Measurement) Advice {
	grouped := groupByKind(measurements)

	advice := Advice{}
	for _, kind := range Kinds {
		readings := grouped[kind]
		if len(readings) == 0 {
			continue
		}
		if adv, ok := evaluate(kind, readings); ok {
			advice = append(advice, adv)
		}
	}
	return advice
}

// groupByKind buckets readings per kind, newest first.
func groupByKind(measurements []Measurement) map[Kind][]Measurement {
	grouped := make(map[Kind][]Measurement, len(Kinds))
	for _, m := range measurements {
		grouped[m.Kind] = append(grouped[m.Kind], m)
	}
	for kind, readings := range grouped {
		sort.SliceStable(readings, func(i, j int) bool {
			return readings[i].MeasuredAt.After(readings[j].MeasuredAt)
		})
		grouped[kind] = readings
	}
	return grouped
}

func evaluate(kind Kind, readings []Measurement) (Advisory, bool) {
	latest := readings[0].Value

	switch kind {
	case KindBloodPressure:
		if latest > bloodPressureHigh {
			return Advisory{kind, LevelElevated, "Your blood pressure is elevated. Reduce processed foods, manage stress with yoga or meditation, stay physically active (30 min/day), and monitor regularly. Consider consulting a cardiologist for personalized medication or risk evaluation."}, true
		}
		if latest < bloodPressureLow {
			return Advisory{kind, LevelLow, "Your blood pressure is lower than normal. Stay well-hydrated, avoid sudden posture changes, and include slightly more sodium in your diet if advised. Persistent low BP should be discussed with a healthcare provider to rule out underlying issues like anemia or adrenal insufficiency."}, true
		}
	case KindHeartRate:
		if latest > heartRateHigh {
			return Advisory{kind, LevelElevated, "Your resting heart rate is elevated. This may be due to stress, dehydration, or poor sleep. Prioritize 7–9 hours of sleep, hydrate consistently, and practice deep breathing or mindfulness. If it persists, consult a cardiologist for arrhythmia or thyroid screening."}, true
		}
		if latest < heartRateLow {
			return Advisory{kind, LevelLow, "Your heart rate is below average. This could be normal in athletes, but if you experience fatigue, dizziness, or shortness of breath, seek medical advice to check for bradycardia or electrolyte imbalance."}, true
		}
	case KindBloodSugar:
		if latest > bloodSugarHigh {
			return Advisory{kind, LevelHigh, "Your blood sugar levels are above normal. Consider a low glycemic index (GI) diet, increase fiber and protein intake, and engage in regular aerobic exercise. Track your levels using a glucometer. If readings remain high, get tested for insulin resistance or type 2 diabetes."}, true
		}
		if latest < bloodSugarLow {
			return Advisory{kind, LevelLow, "Your blood sugar is low. Eat small, frequent meals and avoid prolonged fasting. Keep quick glucose sources (e.g., fruit juice, glucose tablets) on hand. If episodes are recurrent, consult a doctor to assess for hypoglycemia or insulin imbalance."}, true
		}
	case KindWeight:
		if len(readings) < 2 {
			return Advisory{}, false
		}
		return weightAdvisory(latest - readings[1].Value)
	case KindTemperature:
		if latest > temperatureHigh {
			return Advisory{kind, LevelFever, "You have a mild fever. Stay hydrated, rest, and monitor for symptoms like cough, fatigue, or sore throat. Seek medical help if temperature exceeds 38.3°C or symptoms worsen."}, true
		}
		if latest < temperatureLow {
			return Advisory{kind, LevelLow, "Your body temperature is below normal. This could be due to cold exposure, low metabolism, or medical conditions. Stay warm and consult a doctor if you experience chills, confusion, or fatigue."}, true
		}
	case KindOxygenSaturation:
		if latest < oxygenSaturationLow {
			return Advisory{kind, LevelBelowNormal, "Your oxygen saturation is below normal. Practice deep breathing exercises, stay upright, and ensure good ventilation. If you experience shortness of breath, chest pain, or levels fall below 92%, seek immediate medical attention."}, true
		}
	}
	return Advisory{}, false
}

func weightAdvisory(delta float64) (Advisory, bool) {
	if math.Abs(delta) <= weightChangeLimit {
		return Advisory{}, false
	}
	level, direction := LevelGain, "gain"
	if delta < 0 {
		level, direction = LevelLoss, "loss"
	}
	msg := fmt.Sprintf("You've experienced a %s of %skg. Sudden weight %s can indicate metabolic changes, hormonal imbalance, or nutritional deficiencies. Consider a professional evaluation to create a sustainable plan tailored to your health goals.",
		direction, formatKilograms(math.Abs(delta)), direction)
	return Advisory{KindWeight, level, msg}, true
}

// formatKilograms rounds to one decimal and drops a trailing ".0".
func formatKilograms(v float64) string {
	return strconv.FormatFloat(math.Round(v*10)/10, 'f', -1, 64)
}
