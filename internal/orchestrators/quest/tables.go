package quest

import "github.com/KirkDiggler/rpg-engine/internal/entities"

// Lookup tables are indexed by a 2d6 total minus two.

var archetypeTable = [11]entities.ObjectiveType{
	entities.ObjectiveInvestigate, // 2
	entities.ObjectiveEscort,      // 3
	entities.ObjectiveTalk,        // 4
	entities.ObjectiveCollect,     // 5
	entities.ObjectiveDelivery,    // 6
	entities.ObjectiveCombat,      // 7
	entities.ObjectiveExplore,     // 8
	entities.ObjectiveDelivery,    // 9
	entities.ObjectiveCollect,     // 10
	entities.ObjectiveCombat,      // 11
	entities.ObjectiveInvestigate, // 12
}

var giverTable = [11]string{
	"Dama Leonor",
	"Juglar Pico",
	"Curandera Nela",
	"Cazador Bruno",
	"Tabernera Rosa",
	"Herrero Tomás",
	"Mercader Ulises",
	"Capitana Iria",
	"Fray Anselmo",
	"Alcalde Ramiro",
	"Anciana Berta",
}

var locationTable = [11]string{
	"Cripta Olvidada",
	"Paso del Lobo",
	"Pantano Negro",
	"Mina Abandonada",
	"Camino Real",
	"Aldea del Roble",
	"Bosque Umbrío",
	"Puerto Gris",
	"Ruinas de Valdor",
	"Torre del Vigía",
	"Monasterio de Piedra",
}

var baseRewardTable = [11]entities.Rewards{
	{XP: 1, Gold: 2},
	{XP: 1, Gold: 3},
	{XP: 1, Gold: 4},
	{XP: 2, Gold: 5},
	{XP: 2, Gold: 6},
	{XP: 2, Gold: 8},
	{XP: 3, Gold: 8},
	{XP: 3, Gold: 10},
	{XP: 4, Gold: 12},
	{XP: 4, Gold: 15},
	{XP: 5, Gold: 20},
}

var (
	deliveryItems = []string{"carta_sellada", "paquete_de_hierbas", "cofre_pequeño", "anillo_familiar"}
	collectItems  = []string{"hierba_lunar", "piel_de_lobo", "mineral_de_hierro", "seta_azul"}
	enemyKinds    = []string{"Lobo", "Bandido", "Esqueleto", "Araña gigante", "Goblin"}
	npcNames      = []string{"Viejo Ermitaño", "Guardia Lope", "Niña Clara", "Peregrino Samuel", "Monje Dario"}
)

// template placeholders: {giver} {location} {target} {item} {count}
type textTemplates struct {
	titles       []string
	descriptions []string
}

var templates = map[entities.ObjectiveType]textTemplates{
	entities.ObjectiveDelivery: {
		titles: []string{
			"Un encargo para {target}",
			"Entrega urgente",
			"El paquete de {giver}",
		},
		descriptions: []string{
			"{giver} necesita que lleves {item} a {target} sin abrirlo.",
			"Recoge {item} en {location} y entrégaselo a {target}.",
		},
	},
	entities.ObjectiveCombat: {
		titles: []string{
			"Cacería en {location}",
			"Limpiar {location}",
			"La amenaza de {target}",
		},
		descriptions: []string{
			"{giver} pide que acabes con {count} {target} que rondan {location}.",
			"Los caminos a {location} no son seguros. Derrota a {count} {target}.",
		},
	},
	entities.ObjectiveExplore: {
		titles: []string{
			"Lo que esconde {location}",
			"Tierra sin mapa",
		},
		descriptions: []string{
			"{giver} quiere saber qué hay en {location}.",
			"Nadie ha vuelto de {location}. Averigua por qué.",
		},
	},
	entities.ObjectiveTalk: {
		titles: []string{
			"Palabras con {target}",
			"Un mensaje de {giver}",
		},
		descriptions: []string{
			"Habla con {target} en {location} de parte de {giver}.",
			"{giver} necesita una respuesta de {target}.",
		},
	},
	entities.ObjectiveCollect: {
		titles: []string{
			"Recolección en {location}",
			"Suministros para {giver}",
		},
		descriptions: []string{
			"Reúne {count} de {item} en {location}.",
			"{giver} necesita {count} de {item} antes del anochecer.",
		},
	},
	entities.ObjectiveEscort: {
		titles: []string{
			"Escolta hasta {location}",
			"Un viaje peligroso",
		},
		descriptions: []string{
			"Acompaña a {target} sano y salvo hasta {location}.",
			"{giver} te confía la seguridad de {target} en el camino a {location}.",
		},
	},
	entities.ObjectiveInvestigate: {
		titles: []string{
			"Misterio en {location}",
			"Preguntas sin respuesta",
		},
		descriptions: []string{
			"Algo extraño ocurre en {location}. {giver} quiere la verdad.",
			"Investiga {location}, interroga a los testigos y reúne pruebas.",
		},
	},
}
