package orgnr

// EntityKind is the legal entity group encoded in the first digit of an
// organization number.
type EntityKind int

const (
	KindSoleTrader  EntityKind = 0 // Enskild firma
	KindEstate      EntityKind = 1 // Dödsbon
	KindPublic      EntityKind = 2 // state, county council, municipality or parish
	KindForeign     EntityKind = 3 // foreign company with business or property in Sweden
	KindUnused      EntityKind = 4
	KindAktiebolag  EntityKind = 5
	KindSimple      EntityKind = 6 // Enkelt bolag
	KindAssociation EntityKind = 7 // economic or housing association
	KindNonProfit   EntityKind = 8 // non-profit association or foundation
	KindPartnership EntityKind = 9 // trading or limited partnership
)

// UnknownType is the label for digits without an entity group.
const UnknownType = "Okänt"

var kindLabels = map[EntityKind]string{
	KindSoleTrader:  "Enskild firma",
	KindEstate:      "Dödsbon",
	KindPublic:      "Stat, landsting, kommun eller församling",
	KindForeign:     "Utländska företag som bedriver näringsverksamhet eller äger fastigheter i Sverige",
	KindAktiebolag:  "Aktiebolag",
	KindSimple:      "Enkelt bolag",
	KindAssociation: "Ekonomisk förening eller bostadsrättsförening",
	KindNonProfit:   "Ideella förening och stiftelse",
	KindPartnership: "Handelsbolag, kommanditbolag och enkelt bolag",
}

// Label returns the Swedish description of the entity group, or UnknownType.
func (k EntityKind) Label() string {
	if label, ok := kindLabels[k]; ok {
		return label
	}
	return UnknownType
}

func (k EntityKind) String() string {
	return k.Label()
}
