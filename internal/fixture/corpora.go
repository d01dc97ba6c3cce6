package fixture

// Probe sentences that the default model is expected to classify correctly.
const (
	English = "Mike McCandless rocks the boat."
	Polish  = "W Szczebrzeszynie chrząszcz brzmi w trzcinie"
	Italian = "Piano italiano per la crescita: negoziato in Europa sugli investimenti «virtuosi»"
	French  = "Le gouvernement français a présenté hier un nouveau projet de loi sur l'éducation."
	German  = "Die Bundesregierung hat gestern einen neuen Gesetzentwurf für die Schulen vorgestellt."
)

// Corpora returns the training texts of the default model. English has the
// most documents and therefore the highest prior.
func Corpora() []Language {
	return []Language{
		{Code: "en", Texts: []string{
			English,
			"The quick brown fox jumps over the lazy dog while the children watch from the window.",
			"Which of these books would you recommend to someone who has never read anything by this author?",
			"The weather was nice this morning, so we walked through the park and talked about the new project.",
			"They shouldn't have taken the last train home; the night bus would have been much quicker and cheaper.",
			"She thought that everything was going to be fine, but the meeting with the board went badly.",
		}},
		{Code: "de", Texts: []string{
			German,
			"Der schnelle braune Fuchs springt über den faulen Hund, während die Kinder aus dem Fenster schauen.",
			"Ich weiß nicht, ob wir morgen noch genügend Zeit haben, um die Straße zu überqueren.",
			"Die Wirtschaft wächst langsamer als erwartet, und die Gewerkschaften fordern höhere Löhne.",
			"Könnten Sie mir bitte sagen, wie ich am schnellsten zum Hauptbahnhof komme?",
		}},
		{Code: "fr", Texts: []string{
			French,
			"Le chat dort sur le canapé pendant que les enfants jouent dans le jardin avec leurs amis.",
			"Nous avons décidé de partir en vacances à la montagne où l'air est plus frais qu'en ville.",
			"Les élèves doivent rendre leurs devoirs avant la fin de la semaine prochaine, c'est très important.",
			"Il faut que tu viennes voir cette exposition extraordinaire au musée d'art moderne.",
		}},
		{Code: "it", Texts: []string{
			Italian,
			"Il gatto dorme sul divano mentre i bambini giocano in giardino con i loro amici.",
			"Abbiamo deciso di andare in vacanza in montagna perché l'aria è più fresca che in città.",
			"Gli studenti devono consegnare i compiti entro la fine della prossima settimana.",
			"Questa è una delle più belle chiese della città, costruita nel quattordicesimo secolo.",
		}},
		{Code: "pl", Texts: []string{
			Polish,
			"Szybki brązowy lis przeskakuje nad leniwym psem, a dzieci patrzą przez okno.",
			"Rząd przedstawił wczoraj nowy projekt ustawy dotyczący szkolnictwa wyższego w Polsce.",
			"Chciałbym się dowiedzieć, jak najszybciej dojechać do dworca głównego w Krakowie.",
			"Wszyscy cieszą się, że przyszła wiosna i można już spacerować bez kurtki.",
		}},
		{Code: "pt", Texts: []string{
			"O gato dorme no sofá enquanto as crianças brincam no jardim com os seus amigos.",
			"Decidimos passar as férias nas montanhas, onde o ar é mais fresco do que na cidade.",
			"O governo apresentou ontem um novo projeto de lei sobre a educação pública em Portugal.",
			"Você poderia me dizer qual é o caminho mais rápido até a estação de comboios?",
		}},
		{Code: "es", Texts: []string{
			"El gato duerme en el sofá mientras los niños juegan en el jardín con sus amigos.",
			"Decidimos pasar las vacaciones en la montaña, donde el aire es más fresco que en la ciudad.",
			"El gobierno presentó ayer un nuevo proyecto de ley sobre la educación pública en España.",
			"¿Podría decirme cuál es el camino más rápido para llegar a la estación de tren?",
		}},
		{Code: "se", Texts: []string{
			"Katten sover på soffan medan barnen leker i trädgården med sina vänner.",
			"Vi bestämde oss för att åka till fjällen på semester, där luften är friskare än i staden.",
			"Regeringen presenterade i går ett nytt lagförslag om skolan och högre utbildning i Sverige.",
			"Kan du säga mig hur jag snabbast kommer till centralstationen härifrån?",
		}},
		{Code: "no", Texts: []string{
			"Katten sover på sofaen mens barna leker i hagen med vennene sine.",
			"Vi bestemte oss for å dra til fjells i ferien, der luften er friskere enn i byen.",
			"Regjeringen la i går fram et nytt lovforslag om skolen og høyere utdanning i Norge.",
			"Kan du fortelle meg hvordan jeg kommer raskest til jernbanestasjonen herfra?",
		}},
	}
}
