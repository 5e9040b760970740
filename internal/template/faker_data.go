package template

var fakerFirstNames = []string{
	"James", "Mary", "Robert", "Patricia", "John", "Jennifer", "Michael", "Linda",
	"David", "Elizabeth", "William", "Barbara", "Richard", "Susan", "Joseph", "Jessica",
	"Thomas", "Sarah", "Charles", "Karen", "Daniel", "Nancy", "Matthew", "Lisa",
	"Anthony", "Betty", "Mark", "Sandra", "Aisha", "Mateo", "Yuki", "Priya",
}

var fakerLastNames = []string{
	"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis",
	"Rodriguez", "Martinez", "Hernandez", "Lopez", "Gonzalez", "Wilson", "Anderson", "Thomas",
	"Taylor", "Moore", "Jackson", "Martin", "Lee", "Perez", "Thompson", "White",
	"Harris", "Clark", "Lewis", "Walker", "Nakamura", "Okafor", "Schmidt", "Rossi",
}

var fakerEmailDomains = []string{
	"example.com", "example.org", "example.net", "mail.test", "inbox.test", "mock.io",
}

var fakerStreetNames = []string{
	"Main", "Oak", "Pine", "Maple", "Cedar", "Elm", "Washington", "Lake",
	"Hill", "Park", "View", "Sunset", "Church", "Mill", "River", "Spring",
}

var fakerStreetSuffixes = []string{
	"Street", "Avenue", "Boulevard", "Road", "Lane", "Drive", "Court", "Way", "Place",
}

var fakerCities = []string{
	"Springfield", "Riverside", "Franklin", "Greenville", "Bristol", "Clinton", "Fairview",
	"Salem", "Madison", "Georgetown", "Arlington", "Ashland", "Dover", "Oxford", "Jackson",
	"Burlington", "Manchester", "Milton", "Newport", "Auburn",
}

var fakerCountries = []string{
	"United States", "Canada", "Mexico", "Brazil", "Argentina", "United Kingdom", "Ireland",
	"France", "Germany", "Spain", "Italy", "Portugal", "Netherlands", "Sweden", "Norway",
	"Poland", "Japan", "South Korea", "India", "Australia", "New Zealand", "South Africa",
	"Nigeria", "Kenya", "Egypt",
}
