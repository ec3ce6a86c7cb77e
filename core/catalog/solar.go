// Package catalog - Built-in utility-scale solar categories
package catalog

// Default returns the built-in solar PV category catalog
func Default() *Catalog {
	c := NewCatalog()
	for _, e := range solarCategories {
		c.Register(e)
	}
	return c
}

var solarCategories = []Category{
	{Code: "PV-MOD", NameES: "Módulos", NameEN: "Modules", Ordering: 10, IsEquipment: true},
	{Code: "PV-INV", NameES: "Inversores", NameEN: "Inverters", Ordering: 20, IsEquipment: true},
	{Code: "PV-ESS", NameES: "Almacenamiento (BESS)", NameEN: "Energy Storage (BESS)", Ordering: 30, IsEquipment: true},
	{Code: "PV-SBOS", NameES: "SBOS (Estructuras / Trackers)", NameEN: "SBOS (Structural / Trackers)", Ordering: 40, IsEquipment: true},
	{Code: "PV-EBOS", NameES: "EBOS (Eléctrico)", NameEN: "EBOS (Electrical BOS)", Ordering: 50, IsEquipment: true},
	{Code: "PV-CIV", NameES: "Obra civil y preparación de sitio", NameEN: "Civil Works & Site Prep", Ordering: 60},
	{Code: "PV-INST", NameES: "Instalación y construcción", NameEN: "Installation & Construction", Ordering: 70},
	{Code: "PV-SUB", NameES: "Subestación e Interconexión", NameEN: "Substation & Interconnection", Ordering: 80},
	{Code: "PV-SCADA", NameES: "SCADA / Comunicaciones / Seguridad", NameEN: "SCADA / Comms / Security", Ordering: 90},
	{Code: "PV-ENG", NameES: "Ingeniería, permisos y estudios", NameEN: "Engineering, Permits & Studies", Ordering: 100},
	{Code: "PV-DEV", NameES: "Desarrollo / Administración del proyecto", NameEN: "Development / Project Management", Ordering: 110},
	{Code: "PV-OTH", NameES: "Otros / Contingencias", NameEN: "Other / Contingencies", Ordering: 120},
	{Code: "LAND", NameES: "Tierra / Predios", NameEN: "Land", Ordering: 130},
}
