package entities

// Entity labels used by the annotation schema. The vocabulary is fixed; an
// entity with any other label is kept but never classified into an argument
// group.
const (
	LabelPatient            = "患者"
	LabelSymptom            = "症状"
	LabelPathogenesis       = "病因病机"
	LabelTreatmentPrinciple = "治则治法"
	LabelFormula            = "方剂"
	LabelUnknownFormula     = "未知方剂"
	LabelHerb               = "中药"
	LabelExcipient          = "辅料"
	LabelAge                = "年龄"
	LabelSex                = "性别"
	LabelUsage              = "用法"
	LabelDosageForm         = "剂型"
	LabelCitation           = "引文"
	LabelEventTrigger       = "诊疗事件触发词"
)

// Relation types. The first five only mark attributes and are folded into
// their source entity before serialization; the last two are structural and
// are generated for synthesized formulas.
const (
	RelDosage               = "药物用量"
	RelPreparation          = "炮制方法"
	RelEfficacy             = "药物功用"
	RelFormulaUsage         = "方剂用法"
	RelFormulaDosageForm    = "方剂剂型"
	RelComposition          = "组成"
	RelExcipientComposition = "作为辅料组成"
)

// Attribute keys under which merged entities are attached.
const (
	AttrDosage      = "用量"
	AttrPreparation = "制法"
	AttrEfficacy    = "功用"
	AttrUsage       = LabelUsage
	AttrDosageForm  = LabelDosageForm
	AttrAge         = LabelAge
	AttrSex         = LabelSex
)

// KnownLabels is the fixed entity label vocabulary.
var KnownLabels = map[string]bool{
	LabelPatient:            true,
	LabelSymptom:            true,
	LabelPathogenesis:       true,
	LabelTreatmentPrinciple: true,
	LabelFormula:            true,
	LabelUnknownFormula:     true,
	LabelHerb:               true,
	LabelExcipient:          true,
	LabelAge:                true,
	LabelSex:                true,
	LabelUsage:              true,
	LabelDosageForm:         true,
	LabelCitation:           true,
	LabelEventTrigger:       true,
}

// AttributeRelationTypes are relation types that only mark attributes and
// must not appear in an event's treatment relations.
var AttributeRelationTypes = map[string]bool{
	RelDosage:            true,
	RelPreparation:       true,
	RelEfficacy:          true,
	RelFormulaUsage:      true,
	RelFormulaDosageForm: true,
}
