package checkout

// States lists the Mexican federal entities accepted as shipping states.
var States = []string{
	"Aguascalientes",
	"Baja California",
	"Baja California Sur",
	"Campeche",
	"Chiapas",
	"Chihuahua",
	"Ciudad de México",
	"Coahuila",
	"Colima",
	"Durango",
	"Estado de México",
	"Guanajuato",
	"Guerrero",
	"Hidalgo",
	"Jalisco",
	"Michoacán",
	"Morelos",
	"Nayarit",
	"Nuevo León",
	"Oaxaca",
	"Puebla",
	"Querétaro",
	"Quintana Roo",
	"San Luis Potosí",
	"Sinaloa",
	"Sonora",
	"Tabasco",
	"Tamaulipas",
	"Tlaxcala",
	"Veracruz",
	"Yucatán",
	"Zacatecas",
}

var stateSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(States))
	for _, s := range States {
		set[s] = struct{}{}
	}
	return set
}()

// IsState reports whether name is one of States.
func IsState(name string) bool {
	_, ok := stateSet[name]
	return ok
}
