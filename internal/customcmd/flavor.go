package customcmd

// Content tables backing the built-in functions. Fixed at compile time and
// picked from uniformly at random.

type joke struct {
	Setup     string
	Punchline string
}

var jokes = []joke{
	{"Why don't Jewish mothers drink?", "Alcohol interferes with their suffering."},
	{"What's the difference between a Jewish mother and a GPS?", "A GPS eventually stops telling you where to go."},
	{"Why did the matzah go to the doctor?", "Because it was feeling crummy."},
	{"How does Moses make his coffee?", "Hebrews it. ☕"},
	{"What did the Jewish mother say when her son became an astronaut?", "\"You couldn't be a doctor up THERE either?\""},
	{"Why did Adam and Eve move to Israel?", "They wanted to start fresh in the Promised Land."},
	{"What's a Jewish dilemma?", "Free ham."},
	{"What do you call a potato that has converted to Judaism?", "A Hebrewed Spud."},
	{"Why was the Red Sea so stressed?", "Because Moses kept splitting on it."},
	{"Why did the Jewish boy fail his driving test?", "He kept trying to negotiate the right of way."},
}

// Roast templates; {user} is replaced with the target's display name.
var roasts = []string{
	"{user} is the reason Moses needed 40 years — he was trying to get away from people like you.",
	"{user} has less culture than a petri dish in the Negev desert.",
	"{user} is so boring, even a 3-hour Seder feels exciting by comparison.",
	"{user} couldn't negotiate a discount at the shuk if their life depended on it.",
	"{user} is the human equivalent of gefilte fish — nobody asked for you, but here you are.",
	"{user}'s IQ is lower than the Dead Sea.",
	"{user} has the charisma of a matzah cracker — dry, flat, and hard to swallow.",
	"{user} is the 11th plague that didn't make the cut.",
	"{user} makes Pharaoh look like a reasonable person.",
	"{user} is what happens when you open the door for Elijah and the wrong person walks in.",
}

var facts = []string{
	"Israel is the only country in the world that has more trees now than it had 50 years ago. 🌳",
	"The Dead Sea is the lowest point on Earth at 430.5 meters below sea level.",
	"Hebrew was a dead language for 1,700 years before it was revived in the late 19th century.",
	"Drip irrigation was invented in Israel, saving water and feeding the world.",
	"Tel Aviv has more sushi restaurants per capita than Tokyo. Yes, really.",
	"The Technion in Haifa is older than the State of Israel — founded in 1912.",
	"Waze, the GPS app, was invented in Israel. And yet, Israeli drivers still can't navigate a roundabout.",
	"Krav Maga, the martial art used by military forces worldwide, was developed in Israel.",
	"Cherry tomatoes were developed by Israeli scientists. You're welcome, salads of the world.",
	"USB flash drives were invented in Israel by the company M-Systems.",
}

type hebrewWord struct {
	Word            string
	Transliteration string
	Meaning         string
}

var hebrewWords = []hebrewWord{
	{"סבבה", "Sababa", "Cool / No problem / Everything's great"},
	{"יאללה", "Yalla", "Let's go! / Come on! / Hurry up!"},
	{"בלאגן", "Balagan", "A mess / chaos / total disorder"},
	{"אחלה", "Achla", "Awesome / great / the best"},
	{"פרייר", "Fraier", "A sucker / someone who gets taken advantage of"},
	{"דווקא", "Davka", "Specifically / despite / out of spite"},
	{"חוצפה", "Chutzpah", "Audacity / nerve / brazen boldness"},
	{"תכלס", "Tachles", "Basically / bottom line / get to the point"},
	{"מגניב", "Magniv", "Cool / awesome / literally 'thieving'"},
	{"סליחה", "Slicha", "Excuse me / sorry (used 500 times daily in Israel)"},
}

var memeCaptions = []string{
	"When someone says they don't like hummus:\n*angry Israeli noises* 😤",
	"My Jewish mother after I don't call for ONE day:\n\"So you've forgotten you have a mother?\"",
	"Nobody:\nIsraeli drivers: 🚗💨 *HONK HONK YALLA YALLA*",
	"Me trying to eat bread during Passover:\n👀 *looks around nervously*",
	"When someone asks if I want seconds at Shabbat dinner:\nBrother, I'm already on fourths.",
	"The Dead Sea:\n*exists*\nTourists: \"LeT mE fLoAt In It\" 🧂",
	"Israeli tech bros explaining their startup:\n\"It's like Uber, but for hummus delivery\"",
	"Me after eating an entire challah by myself:\n*No regrets, only carbs* 🍞",
	"Israelis in line at the airport:\nWhat line? We don't do lines. 🇮🇱",
	"When someone asks what Yom Kippur is:\n\"It's like a 25-hour timeout for your stomach\"",
}

var eightballAnswers = []string{
	"The Rabbi says yes.",
	"Absolutely, mazel tov!",
	"Hashem wills it so.",
	"As certain as the sun rising over Jerusalem.",
	"Yes, but don't tell your mother.",
	"Ask your mother.",
	"Let me consult the Talmud... try again later.",
	"The Kabbalistic signs are unclear.",
	"Ask again after Shabbat.",
	"Not on Shabbat.",
	"The Rabbi says no. Also, call your mother.",
	"Oy vey, definitely not.",
	"Not even if Moses himself asked.",
	"The Sanhedrin has voted: denied.",
	"Not kosher. Hard no.",
}

var coinflipFaces = [2]string{"🪙 **Heads!**", "🪙 **Tails!**"}
