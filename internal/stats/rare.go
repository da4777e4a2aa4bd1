// Mercator - Galactic Trade Telemetry and Market Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package stats

import "strings"

// RarePremium is the fixed margin rare goods command over their buy
// price when sold far from their origin market. Observed sell prices
// for rares are meaningless (they depend on distance travelled), so the
// aggregates substitute buy + premium instead.
const RarePremium = 16_500

// RareCommodity describes the single origin market of a rare good.
type RareCommodity struct {
	Name     string `json:"name"`
	MarketID int64  `json:"marketId"`
	Station  string `json:"station"`
	System   string `json:"system"`
}

// IsRare reports whether a commodity name belongs to the rare-goods
// table. Names are matched on the lower-cased feed symbol.
func IsRare(name string) bool {
	_, ok := rareCommodities[strings.ToLower(name)]
	return ok
}

// RareByName returns the rare-goods entry for a commodity name.
func RareByName(name string) (RareCommodity, bool) {
	rare, ok := rareCommodities[strings.ToLower(name)]
	return rare, ok
}

// rareCommodities is the static rare-goods table, keyed by lower-cased
// feed symbol. Each rare is produced at exactly one market; the table
// mirrors the in-game list and changes only with game updates.
var rareCommodities = map[string]RareCommodity{
	"aerialedenapple":          {"Eden Apples of Aerial", 128127929, "Silver City", "Aerial"},
	"alacarakmoskinart":        {"Alacarakmo Skin Art", 128127930, "Olivas Settlement", "Alacarakmo"},
	"albinoquechuamammoth":     {"Albino Quechua Mammoth Meat", 128127931, "Hornby Terminal", "Quechua"},
	"altairianskin":            {"Altairian Skin", 128127932, "Solo Orbiter", "Altair"},
	"alyabodysoap":             {"Alya Body Soap", 128127933, "Malerba Hub", "Alya"},
	"anduligafireworks":        {"Anduliga Fire Works", 128127934, "Celsius Estate", "Anduliga"},
	"anynacoffee":              {"Any Na Coffee", 128127935, "Libby Horizons", "Any Na"},
	"apavietii":                {"Apa Vietii", 128127936, "Szentmartony Terminal", "Apathaam"},
	"aroucaconventualsweets":   {"Arouca Conventual Sweets", 128127937, "Shepard Hub", "Arouca"},
	"azcancriformula42":        {"AZ Cancri Formula 42", 128127938, "Fisher Station", "AZ Cancri"},
	"azuremilk":                {"Azure Milk", 128127939, "George Lucas", "Leesti"},
	"bakedgreebles":            {"Baked Greebles", 128127940, "Lee Station", "Aegaeon"},
	"baltahsinevacuumkrill":    {"Baltah'sine Vacuum Krill", 128127941, "Baltah'sine Station", "Baltah'sine"},
	"bankiamphibiousleather":   {"Banki Amphibious Leather", 128127942, "Birkeland City", "HR 7221"},
	"bastsnakegin":             {"Bast Snake Gin", 128127943, "Hart Station", "Bast"},
	"belalansrayleather":       {"Belalans Ray Leather", 128127944, "Boswell Port", "Belalans"},
	"borasetanipathogenetics":  {"Borasetani Pathogenetics", 128127945, "Katzenstein Dock", "Borasetani"},
	"buckyballbeermats":        {"Buckyball Beer Mats", 128127946, "Weyn Dock", "Leesti"},
	"burnhambiledistillate":    {"Burnham Bile Distillate", 128127947, "Mic Turner Base", "Burnham"},
	"cd75catcoffee":            {"CD-75 Kitten Brand Coffee", 128127948, "Kirk Dock", "CD-75 661"},
	"centaurimegagin":          {"Centauri Mega Gin", 128127949, "Hutton Orbital", "Alpha Centauri"},
	"ceremonialheiketea":       {"Ceremonial Heike Tea", 128127950, "Uchida Dock", "Heike"},
	"cetirabbits":              {"Ceti Rabbits", 128127951, "Ito Orbital", "Ceti"},
	"chameleoncloth":           {"Chameleon Cloth", 128127952, "Baker Terminal", "Chameleon"},
	"chateaudeaegaeon":         {"Chateau de Aegaeon", 128127953, "Schweickart Station", "Aegaeon"},
	"cherbonesbloodcrystals":   {"Cherbones Blood Crystals", 128127954, "Feynman Terminal", "Cherbones"},
	"chieridanimarinepaste":    {"Chi Eridani Marine Paste", 128127955, "Steve Masters", "Chi Eridani"},
	"coquimspongiformvictuals": {"Coquim Spongiform Victuals", 128127956, "Evans Horizons", "Coquim"},
	"cromsilverfesh":           {"Crom Silver Fesh", 128127957, "Snyder Enterprise", "Crom"},
	"crystallinespheres":       {"Crystalline Spheres", 128127958, "Cleve Hub", "Eshu"},
	"damnacarapaces":           {"Damna Carapaces", 128127959, "Watts Dock", "Damna"},
	"deltaphoenicispalms":      {"Delta Phoenicis Palms", 128127960, "Trading Post", "Delta Phoenicis"},
	"deuringastruffles":        {"Deuringas Truffles", 128127961, "Shukor Hub", "Deuringas"},
	"disomacorn":               {"Diso Ma Corn", 128127962, "Shifnalport", "Diso"},
	"eleuthermals":             {"Eleu Thermals", 128127963, "Finney Dock", "Eleu"},
	"eraninpearlwhisky":        {"Eranin Pearl Whisky", 128127964, "Azeban City", "Eranin"},
	"eshuumbrellas":            {"Eshu Umbrellas", 128127965, "Shajn Terminal", "Eshu"},
	"esusekucaviar":            {"Esuseku Caviar", 128127966, "Savinykh Orbital", "Esuseku"},
	"ethgrezeteabuds":          {"Ethgreze Tea Buds", 128127967, "Bloch Station", "Ethgreze"},
	"fujintea":                 {"Fujin Tea", 128127968, "Futen Spaceport", "Fujin"},
	"galactictravelguide":      {"Galactic Travel Guide", 128127969, "Heisenberg Colony", "67 Ceti"},
	"geawendancedust":          {"Geawen Dance Dust", 128127970, "Obruchev Legacy", "Geawen"},
	"gerasiangueuzebeer":       {"Gerasian Gueuze Beer", 128127971, "Yurchikhin Port", "Geras"},
	"giantirukamasnails":       {"Giant Irukama Snails", 128127972, "Kerimov Gateway", "Irukama"},
	"giantverrix":              {"Giant Verrix", 128127973, "Kandel Arsenal", "Kappa Fornacis"},
	"gilyasignatureweapons":    {"Gilya Signature Weapons", 128127974, "Yakovlev Port", "Gilya"},
	"gomanyauponcoffee":        {"Goman Yaupon Coffee", 128127975, "Gustav Sporer Port", "Goman"},
	"haidneblackbrew":          {"Haiden Black Brew", 128127976, "Gotlieb Dock", "Haidne"},
	"harmasilversearum":        {"Harma Silver Sea Rum", 128127977, "Gabriel Enterprise", "Harma"},
	"havasupaidreamcatcher":    {"Havasupai Dream Catcher", 128127978, "Lovelace Port", "Havasupai"},
	"helvetitjpearls":          {"Helvetitj Pearls", 128127979, "Friend Orbital", "Helvetitj"},
	"hip10175bushmeat":         {"HIP 10175 Bush Meat", 128127980, "Stefanyshyn-Piper Station", "HIP 10175"},
	"hip41181squid":            {"HIP 41181 Squid", 128127981, "Arkhangelsky Port", "HIP 41181"},
	"hiporganophosphates":      {"HIP Organophosphates", 128127982, "Stasheff Colony", "HIP 80364"},
	"holvaduellingblades":      {"Holva Duelling Blades", 128127983, "Kreutz Orbital", "Holva"},
	"honestypills":             {"Honesty Pills", 128127984, "Baxter Plant", "Nocori"},
	"hr7221wheat":              {"HR 7221 Wheat", 128127985, "Veron City", "HR 7221"},
	"indibourbon":              {"Indi Bourbon", 128127986, "Mansfield Orbiter", "Epsilon Indi"},
	"jaquesquinentianstill":    {"Jaques Quinentian Still", 128127987, "Jaques Station", "Colonia"},
	"jaradharrepuzzlebox":      {"Jaradharre Puzzle Box", 128127988, "Nahavandi Vision", "Jaradharre"},
	"jarouarice":               {"Jaroua Rice", 128127989, "Cortes Dock", "Jaroua"},
	"jotunmookah":              {"Jotun Mookah", 128127990, "Marshburn Dock", "Jotun"},
	"kachiriginfilterleeches":  {"Kachirigin Filter Leeches", 128127991, "Nowak Orbital", "Kachirigin"},
	"kamitracigars":            {"Kamitra Cigars", 128127992, "Hammel Terminal", "Kamitra"},
	"kamorinhistoricweapons":   {"Kamorin Historic Weapons", 128127993, "Pirsan Dock", "Kamorin"},
	"karetiicouture":           {"Karetii Couture", 128127994, "Sinclair Platform", "Karetii"},
	"karsukilocusts":           {"Karsuki Locusts", 128127995, "West Market", "Karsuki Ti"},
	"kinagoviolins":            {"Kinago Violins", 128127996, "Fozard Port", "Kinago"},
	"konggaale":                {"Kongga Ale", 128127997, "Laplace Ring", "Kongga"},
	"korrokungpellets":         {"Korro Kung Pellets", 128127998, "Lee Dock", "Korro Kung"},
	"lavianbrandy":             {"Lavian Brandy", 128127999, "Lave Station", "Lave"},
	"leatheryeggs":             {"Leathery Eggs", 128128000, "Ridley Scott", "Zaonce"},
	"leestianeviljuice":        {"Leestian Evil Juice", 128128001, "George Lucas", "Leesti"},
	"livehecateseaworms":       {"Live Hecate Sea Worms", 128128002, "Stein Dock", "Hecate"},
	"ltthypersweet":            {"LTT Hyper Sweet", 128128003, "Reilly Hub", "LTT 9360"},
	"masterchefs":              {"Master Chefs", 128128004, "Crown Refinery", "HIP 118311"},
	"mechucoshightea":          {"Mechucos High Tea", 128128005, "Brunel City", "Mechucos"},
	"medbstarlube":             {"Medb Starlube", 128128006, "Vela Dock", "Medb"},
	"mokojingbeastfeast":       {"Mokojing Beast Feast", 128128007, "Bellamy Dock", "Mokojing"},
	"momusbogspaniel":          {"Momus Bog Spaniel", 128128008, "Holden Dock", "Momus Reach"},
	"motronaexperiencejelly":   {"Motrona Experience Jelly", 128128009, "Mastracchio Platform", "Dea Motrona"},
	"mukusubiichitinos":        {"Mukusubii Chitin-os", 128128010, "Virtanen Gateway", "Mukusubii"},
	"mulachigiantfungus":       {"Mulachi Giant Fungus", 128128011, "Clayton Orbital", "Mulachi"},
	"neritusberries":           {"Neritus Berries", 128128012, "Toll Ring", "Neritus"},
	"ngadandarifireopals":      {"Ngadandari Fire Opals", 128128013, "Napier Terminal", "Ngadandari"},
	"njangarisaddles":          {"Njangari Saddles", 128128014, "Oyekan Terminal", "Njangari"},
	"noneuclidianexotanks":     {"Non Euclidian Exotanks", 128128015, "Dalton Gateway", "Wolf 397"},
	"ochoengchillies":          {"Ochoeng Chillies", 128128016, "Roddenberry Gateway", "Ochoeng"},
	"onionhead":                {"Onionhead", 128128017, "Tanner Settlement", "Kappa Fornacis"},
	"onionheadalphastrain":     {"Onionhead Alpha Strain", 128128018, "Harvestport", "Panjabell"},
	"onionheadbetastrain":      {"Onionhead Beta Strain", 128128019, "Hardwick Station", "Kappa Fornacis"},
	"ophiuchexinoartefacts":    {"Ophiuch Exino Artefacts", 128128020, "Katson City", "36 Ophiuchi"},
	"orrerianviciousbrew":      {"Orrerian Vicious Brew", 128128021, "Sharon Lee Free Market", "Orrere"},
	"pantaaprayersticks":       {"Pantaa Prayer Sticks", 128128022, "Zamka Platform", "George Pantazis"},
	"pavoniseargrubs":          {"Pavonis Ear Grubs", 128128023, "Hutton Orbital", "Delta Pavonis"},
	"personalgifts":            {"Personal Gifts", 128128024, "Bowersox Dock", "Zeta Aquilae"},
	"rajukrumultistoves":       {"Rajukru Multi-Stoves", 128128025, "Snodgrass Terminal", "Rajukru"},
	"rapabaosnakeskins":        {"Rapa Bao Snake Skins", 128128026, "Flagey City", "Rapa Bao"},
	"rusanioldsmokey":          {"Rusani Old Smokey", 128128027, "Fernandes Market", "Rusani"},
	"sanumadecorativemeat":     {"Sanuma Decorative Meat", 128128028, "Tall Orbital", "Sanuma"},
	"saxonwine":                {"Saxon Wine", 128128029, "Zahn Colony", "HR 7221"},
	"shanscharisorchid":        {"Shan's Charis Orchid", 128128030, "Love Orbital", "Tsu"},
	"soontillrelics":           {"Soontill Relics", 128128031, "Cheranovsky City", "Ngurii"},
	"sothiscrystallinegold":    {"Sothis Crystalline Gold", 128128032, "Newholm Station", "Sothis"},
	"tanmarktranquiltea":       {"Tanmark Tranquil Tea", 128128033, "Cassie-L-Peia Station", "Tanmark"},
	"tarachspice":              {"Tarach Spice", 128128034, "Trevithick Dock", "Tarach Tor"},
	"terramaterbloodbores":     {"Terra Mater Blood Bores", 128128035, "Kamov Vision", "Terra Mater"},
	"thehuttonmug":             {"The Hutton Mug", 128128036, "Hutton Orbital", "Alpha Centauri"},
	"thrutiscream":             {"Thrutis Cream", 128128037, "Kingsbury Dock", "Thrutis"},
	"tiegfriessynthsilk":       {"Tiegfries Synth Silk", 128128038, "Nicolet Dock", "Tiegfries"},
	"tiolcewaste2pasteunits":   {"Tiolce Waste2Paste Units", 128128039, "Gernhardt Camp", "Tiolce"},
	"toxandjivirocide":         {"Toxandji Virocide", 128128040, "Tsunenaga Orbital", "Toxandji"},
	"uszaiantreegrub":          {"Uszaian Tree Grub", 128128041, "Guest Installation", "Uszaa"},
	"utgaroarmillennialeggs":   {"Utgaroar Millennial Eggs", 128128042, "Fort Klarix", "Utgaroar"},
	"uzumokulowgwings":         {"Uzumoku Low-G Wings", 128128043, "Dobrovolski Orbital", "Uzumoku"},
	"vanayequiceratomorphafur": {"Vanayequi Ceratomorpha Fur", 128128044, "Clauss Hub", "Vanayequi"},
	"vegaslimweed":             {"Vega Slimweed", 128128045, "Taylor City", "Vega"},
	"vherculisbodyrub":         {"V Herculis Body Rub", 128128046, "Mendel Mines", "V1090 Herculis"},
	"vidavantianlace":          {"Vidavantian Lace", 128128047, "Fabian City", "Vidavanta"},
	"volkhabbeedrones":         {"Volkhab Bee Drones", 128128048, "Vostok-1 Orbital", "Volkhab"},
	"watersofshintara":         {"Waters of Shintara", 128128049, "Jameson Memorial", "Shinrarta Dezhra"},
	"wheemetewheatcakes":       {"Wheemete Wheat Cakes", 128128050, "Snell Market", "Wheemete"},
	"witchhaulkobebeef":        {"Witchhaul Kobe Beef", 128128051, "Hornby Terminal", "Witchhaul"},
	"wolffesh":                 {"Wolf Fesh", 128128052, "Saunders's Dive", "Wolf 1301"},
	"wulpahyperboresystems":    {"Wulpa Hyperbore Systems", 128128053, "Williams Gateway", "Wulpa"},
	"wuthielokufroth":          {"Wuthielo Ku Froth", 128128054, "Tarter Dock", "Wuthielo Ku"},
	"xihecompanions":           {"Xihe Biomorphic Companions", 128128055, "Zhen Dock", "Xihe"},
	"yasokondileaf":            {"Yaso Kondi Leaf", 128128056, "Whitson City", "Yaso Kondi"},
	"zeesszeantgrubglue":       {"Zeessze Ant Grub Glue", 128128057, "Nicollier Hanger", "Zeessze"},
}
