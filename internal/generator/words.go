package generator

// Word pools used by the string and composite generators. Small on purpose:
// generated data only needs to look plausible, not be exhaustive.

var firstNames = []string{
	"James", "Mary", "John", "Patricia", "Robert", "Jennifer", "Michael",
	"Linda", "David", "Elizabeth", "William", "Barbara", "Richard", "Susan",
	"Joseph", "Jessica", "Thomas", "Sarah", "Daniel", "Karen", "Nora",
	"Lucas", "Emma", "Oliver", "Ava", "Elijah", "Sofia", "Mateo", "Amara",
}

var lastNames = []string{
	"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller",
	"Davis", "Rodriguez", "Martinez", "Hernandez", "Lopez", "Gonzalez",
	"Wilson", "Anderson", "Thomas", "Taylor", "Moore", "Jackson", "Martin",
	"Nguyen", "Kim", "Chen", "Singh", "Ali", "Okafor", "Kowalski",
}

var words = []string{
	"alpha", "harbor", "velvet", "meadow", "copper", "drift", "ember",
	"fable", "glimmer", "hollow", "island", "juniper", "kestrel", "lantern",
	"marble", "nectar", "orchard", "pebble", "quartz", "ripple", "saffron",
	"timber", "umber", "vessel", "willow", "zephyr", "anchor", "breeze",
	"cinder", "dapple",
}

var emailDomains = []string{
	"example.com", "example.org", "example.net", "mail.test", "inbox.test",
}

var urlTLDs = []string{"com", "org", "net", "io", "dev"}

var streetSuffixes = []string{"St", "Ave", "Blvd", "Ln", "Rd", "Way", "Dr"}

var cities = []string{
	"Springfield", "Riverton", "Fairview", "Kingsport", "Lakewood",
	"Brookhaven", "Ashford", "Milltown", "Cedarville", "Harborview",
}

var states = []string{"CA", "NY", "TX", "WA", "IL", "MA", "CO", "OR", "GA", "FL"}

var countries = []string{
	"United States", "Canada", "United Kingdom", "Germany", "France",
	"Australia", "Japan", "Brazil", "Netherlands", "Sweden",
}

var industries = []string{
	"Software", "Logistics", "Healthcare", "Finance", "Retail",
	"Manufacturing", "Education", "Energy", "Media", "Agriculture",
}

var companySuffixes = []string{"Inc", "LLC", "Group", "Labs", "Systems", "Co"}

var productCategories = []string{
	"Electronics", "Home", "Garden", "Toys", "Books", "Clothing",
	"Sports", "Grocery", "Automotive", "Office",
}

var currencies = []string{"USD", "EUR", "GBP", "JPY", "CAD", "AUD"}

var transactionStatuses = []string{"pending", "completed", "failed", "refunded"}

const asciiLetters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

const passwordAlphabet = asciiLetters + "0123456789!@#$%^&*"
