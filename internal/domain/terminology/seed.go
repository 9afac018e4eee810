package terminology

// Catalog is the built-in CIE-10 reference set covering the diagnoses most
// common in pediatric outpatient care. It seeds the cie10_codes table on
// first start and backs the in-memory classifier.
var Catalog = []DiagnosisCode{
	// Respiratory
	{Code: "J00", Description: "Rinofaringitis aguda (resfriado común)", Chapter: "Enfermedades respiratorias"},
	{Code: "J01", Description: "Sinusitis aguda", Chapter: "Enfermedades respiratorias"},
	{Code: "J02", Description: "Faringitis aguda", Chapter: "Enfermedades respiratorias"},
	{Code: "J03", Description: "Amigdalitis aguda", Chapter: "Enfermedades respiratorias"},
	{Code: "J04", Description: "Laringitis y traqueítis agudas", Chapter: "Enfermedades respiratorias"},
	{Code: "J06", Description: "Infecciones agudas de las vías respiratorias superiores", Chapter: "Enfermedades respiratorias"},
	{Code: "J12", Description: "Neumonía viral", Chapter: "Enfermedades respiratorias"},
	{Code: "J13", Description: "Neumonía por Streptococcus pneumoniae", Chapter: "Enfermedades respiratorias"},
	{Code: "J18", Description: "Neumonía, organismo no especificado", Chapter: "Enfermedades respiratorias"},
	{Code: "J20", Description: "Bronquitis aguda", Chapter: "Enfermedades respiratorias"},
	{Code: "J21", Description: "Bronquiolitis aguda", Chapter: "Enfermedades respiratorias"},
	{Code: "J45", Description: "Asma", Chapter: "Enfermedades respiratorias"},

	// Ear and eye
	{Code: "H65", Description: "Otitis media no supurativa", Chapter: "Enfermedades del oído"},
	{Code: "H66", Description: "Otitis media supurativa y la no especificada", Chapter: "Enfermedades del oído"},
	{Code: "H10", Description: "Conjuntivitis", Chapter: "Enfermedades del ojo"},

	// Gastrointestinal
	{Code: "A09", Description: "Diarrea y gastroenteritis de presunto origen infeccioso", Chapter: "Enfermedades gastrointestinales"},
	{Code: "K59", Description: "Otros trastornos funcionales del intestino", Chapter: "Enfermedades gastrointestinales"},
	{Code: "K30", Description: "Dispepsia funcional", Chapter: "Enfermedades gastrointestinales"},

	// Skin
	{Code: "L20", Description: "Dermatitis atópica", Chapter: "Enfermedades de la piel"},
	{Code: "L21", Description: "Dermatitis seborreica", Chapter: "Enfermedades de la piel"},
	{Code: "L22", Description: "Dermatitis del pañal", Chapter: "Enfermedades de la piel"},
	{Code: "L30", Description: "Otras dermatitis", Chapter: "Enfermedades de la piel"},

	// Symptoms and signs
	{Code: "R50", Description: "Fiebre, no especificada", Chapter: "Síntomas y signos"},
	{Code: "R05", Description: "Tos", Chapter: "Síntomas y signos"},
	{Code: "R06", Description: "Anormalidades de la respiración", Chapter: "Síntomas y signos"},
	{Code: "R10", Description: "Dolor abdominal y pélvico", Chapter: "Síntomas y signos"},
	{Code: "R11", Description: "Náusea y vómito", Chapter: "Síntomas y signos"},

	// Nutritional disorders
	{Code: "E40", Description: "Kwashiorkor", Chapter: "Trastornos nutricionales"},
	{Code: "E41", Description: "Marasmo nutricional", Chapter: "Trastornos nutricionales"},
	{Code: "E42", Description: "Marasmo-kwashiorkor", Chapter: "Trastornos nutricionales"},
	{Code: "E43", Description: "Desnutrición proteico-calórica severa no especificada", Chapter: "Trastornos nutricionales"},
	{Code: "E44", Description: "Desnutrición proteico-calórica de grado moderado y leve", Chapter: "Trastornos nutricionales"},
	{Code: "E66", Description: "Obesidad", Chapter: "Trastornos nutricionales"},

	// Infectious diseases
	{Code: "A00", Description: "Cólera", Chapter: "Enfermedades infecciosas"},
	{Code: "A01", Description: "Fiebres tifoidea y paratifoidea", Chapter: "Enfermedades infecciosas"},
	{Code: "A02", Description: "Otras infecciones por Salmonella", Chapter: "Enfermedades infecciosas"},
	{Code: "A03", Description: "Shigelosis", Chapter: "Enfermedades infecciosas"},
	{Code: "A04", Description: "Otras infecciones intestinales bacterianas", Chapter: "Enfermedades infecciosas"},
	{Code: "A08", Description: "Infecciones intestinales debidas a virus y otros organismos especificados", Chapter: "Enfermedades infecciosas"},
	{Code: "B00", Description: "Infecciones por virus del herpes simple", Chapter: "Enfermedades infecciosas"},
	{Code: "B01", Description: "Varicela", Chapter: "Enfermedades infecciosas"},
	{Code: "B02", Description: "Herpes zóster", Chapter: "Enfermedades infecciosas"},
	{Code: "B05", Description: "Sarampión", Chapter: "Enfermedades infecciosas"},
	{Code: "B06", Description: "Rubéola", Chapter: "Enfermedades infecciosas"},
	{Code: "B08", Description: "Otras infecciones virales caracterizadas por lesiones de piel y mucosas", Chapter: "Enfermedades infecciosas"},
}
