package model

// ClothingType is a catalogue entry with the price suggested at order entry.
type ClothingType struct {
	Value        string `json:"value"`
	Label        string `json:"label"`
	DefaultPrice int64  `json:"defaultPrice"`
}

// Catalogue is the list of clothing types the shop offers.
var Catalogue = []ClothingType{
	{Value: "shirt", Label: "Shirt", DefaultPrice: 1500},
	{Value: "trousers", Label: "Trousers", DefaultPrice: 2000},
	{Value: "dress", Label: "Dress", DefaultPrice: 3000},
	{Value: "suit", Label: "Suit", DefaultPrice: 5000},
	{Value: "coat", Label: "Coat/Jacket", DefaultPrice: 4000},
	{Value: "sweater", Label: "Sweater", DefaultPrice: 2500},
	{Value: "bedsheet", Label: "Bed Sheet", DefaultPrice: 3500},
	{Value: "curtain", Label: "Curtain", DefaultPrice: 4500},
	{Value: "blanket", Label: "Blanket", DefaultPrice: 5000},
}
