package location

// brazilianStates is the set of valid UF codes.
var brazilianStates = map[string]bool{
	"AC": true, "AL": true, "AP": true, "AM": true, "BA": true, "CE": true,
	"DF": true, "ES": true, "GO": true, "MA": true, "MT": true, "MS": true,
	"MG": true, "PA": true, "PB": true, "PR": true, "PE": true, "PI": true,
	"RJ": true, "RN": true, "RS": true, "RO": true, "RR": true, "SC": true,
	"SP": true, "SE": true, "TO": true,
}

// cityToState maps accent-normalized, lowercased city and neighborhood
// names to their UF. Keys of two characters or fewer are state
// abbreviations and are skipped by the free-text scan.
var cityToState = map[string]string{
	// São Paulo
	"sao paulo": "SP", "sp": "SP", "campinas": "SP", "santos": "SP",
	"guarulhos": "SP", "osasco": "SP", "santo andre": "SP",
	"sao bernardo": "SP", "abc paulista": "SP", "ribeirao preto": "SP",
	"sorocaba": "SP", "bauru": "SP", "piracicaba": "SP", "jundiai": "SP",
	"mogi das cruzes": "SP", "sao jose dos campos": "SP", "sjc": "SP",
	"presidente prudente": "SP", "marilia": "SP", "araraquara": "SP",
	"sao carlos": "SP", "franca": "SP", "taubate": "SP", "limeira": "SP",
	"americana": "SP", "indaiatuba": "SP", "itapetininga": "SP", "itu": "SP",
	"jacarei": "SP", "barueri": "SP", "cotia": "SP", "alphaville": "SP",
	"moema": "SP", "pinheiros": "SP", "vila mariana": "SP", "jardins": "SP",
	"itaim bibi": "SP", "mooca": "SP", "santana": "SP", "tucuruvi": "SP",
	"tatuape": "SP", "zona norte": "SP", "zona sul": "SP",
	"zona leste": "SP", "zona oeste": "SP",
	// Rio de Janeiro
	"rio de janeiro": "RJ", "rio": "RJ", "rj": "RJ", "niteroi": "RJ",
	"sao goncalo": "RJ", "duque de caxias": "RJ", "nova iguacu": "RJ",
	"campos dos goytacazes": "RJ", "petropolis": "RJ", "volta redonda": "RJ",
	"macae": "RJ", "cabo frio": "RJ", "angra dos reis": "RJ",
	"teresopolis": "RJ", "barra da tijuca": "RJ", "barra": "RJ",
	"copacabana": "RJ", "ipanema": "RJ", "leblon": "RJ", "botafogo": "RJ",
	"flamengo": "RJ", "tijuca": "RJ", "meier": "RJ", "jacarepagua": "RJ",
	"recreio": "RJ", "icarai": "RJ", "centro do rio": "RJ",
	// Minas Gerais
	"belo horizonte": "MG", "bh": "MG", "mg": "MG", "uberlandia": "MG",
	"contagem": "MG", "juiz de fora": "MG", "betim": "MG",
	"montes claros": "MG", "uberaba": "MG", "governador valadares": "MG",
	"ipatinga": "MG", "sete lagoas": "MG", "divinopolis": "MG",
	"pocos de caldas": "MG", "patos de minas": "MG", "pouso alegre": "MG",
	"varginha": "MG", "barbacena": "MG", "conselheiro lafaiete": "MG",
	"itabira": "MG", "savassi": "MG", "lourdes": "MG", "funcionarios": "MG",
	// Paraná
	"curitiba": "PR", "cwb": "PR", "pr": "PR", "londrina": "PR",
	"maringa": "PR", "ponta grossa": "PR", "cascavel": "PR",
	"foz do iguacu": "PR", "sao jose dos pinhais": "PR", "colombo": "PR",
	"guarapuava": "PR", "paranagua": "PR", "toledo": "PR", "apucarana": "PR",
	"campo largo": "PR", "batel": "PR", "agua verde": "PR",
	// Rio Grande do Sul
	"porto alegre": "RS", "poa": "RS", "rs": "RS", "caxias do sul": "RS",
	"pelotas": "RS", "canoas": "RS", "santa maria": "RS", "gravatai": "RS",
	"viamao": "RS", "novo hamburgo": "RS", "sao leopoldo": "RS",
	"rio grande": "RS", "alvorada": "RS", "passo fundo": "RS",
	"sapucaia do sul": "RS", "uruguaiana": "RS", "santa cruz do sul": "RS",
	"cachoeirinha": "RS", "moinhos de vento": "RS", "bela vista": "RS",
	// Santa Catarina
	"florianopolis": "SC", "floripa": "SC", "sc": "SC", "joinville": "SC",
	"blumenau": "SC", "sao jose": "SC", "chapeco": "SC", "itajai": "SC",
	"criciuma": "SC", "jaragua do sul": "SC", "lages": "SC", "palhoca": "SC",
	"balneario camboriu": "SC", "bc": "SC", "brusque": "SC",
	// Bahia
	"salvador": "BA", "ssa": "BA", "ba": "BA", "feira de santana": "BA",
	"vitoria da conquista": "BA", "camacari": "BA", "itabuna": "BA",
	"juazeiro": "BA", "lauro de freitas": "BA", "ilheus": "BA",
	"jequie": "BA", "teixeira de freitas": "BA", "barreiras": "BA",
	"alagoinhas": "BA", "porto seguro": "BA", "eunapolis": "BA",
	// Pernambuco
	"recife": "PE", "pe": "PE", "jaboatao dos guararapes": "PE",
	"olinda": "PE", "caruaru": "PE", "petrolina": "PE", "paulista": "PE",
	"cabo de santo agostinho": "PE", "camaragibe": "PE", "garanhuns": "PE",
	"vitoria de santo antao": "PE", "boa viagem": "PE", "casa forte": "PE",
	// Ceará
	"fortaleza": "CE", "ce": "CE", "caucaia": "CE",
	"juazeiro do norte": "CE", "maracanau": "CE", "sobral": "CE",
	"crato": "CE", "itapipoca": "CE", "maranguape": "CE", "iguatu": "CE",
	"quixada": "CE", "aldeota": "CE", "meireles": "CE",
	// Goiás
	"goiania": "GO", "go": "GO", "aparecida de goiania": "GO",
	"anapolis": "GO", "rio verde": "GO", "luziania": "GO",
	"aguas lindas de goias": "GO", "valparaiso de goias": "GO",
	"trindade": "GO", "formosa": "GO", "senador canedo": "GO",
	"setor bueno": "GO", "setor marista": "GO",
	// Distrito Federal
	"brasilia": "DF", "bsb": "DF", "df": "DF", "taguatinga": "DF",
	"ceilandia": "DF", "samambaia": "DF", "plano piloto": "DF",
	"aguas claras": "DF", "guara": "DF", "sobradinho": "DF",
	"planaltina": "DF", "gama": "DF", "asa sul": "DF", "asa norte": "DF",
	"lago sul": "DF", "lago norte": "DF",
	// Amazonas
	"manaus": "AM", "am": "AM", "parintins": "AM", "itacoatiara": "AM",
	"manacapuru": "AM", "coari": "AM",
	// Pará
	"belem": "PA", "pa": "PA", "ananindeua": "PA", "santarem": "PA",
	"maraba": "PA", "castanhal": "PA", "parauapebas": "PA",
	"abaetetuba": "PA",
	// Maranhão
	"sao luis": "MA", "ma": "MA", "imperatriz": "MA",
	"sao jose de ribamar": "MA", "timon": "MA", "caxias": "MA", "codo": "MA",
	// Mato Grosso
	"cuiaba": "MT", "mt": "MT", "varzea grande": "MT", "rondonopolis": "MT",
	"sinop": "MT", "tangara da serra": "MT", "caceres": "MT",
	// Mato Grosso do Sul
	"campo grande": "MS", "ms": "MS", "dourados": "MS", "tres lagoas": "MS",
	"corumba": "MS", "ponta pora": "MS",
	// Espírito Santo
	"vitoria": "ES", "es": "ES", "vila velha": "ES", "serra": "ES",
	"cariacica": "ES", "cachoeiro de itapemirim": "ES", "linhares": "ES",
	"sao mateus": "ES", "colatina": "ES", "guarapari": "ES",
	// Rio Grande do Norte
	"natal": "RN", "rn": "RN", "mossoro": "RN", "parnamirim": "RN",
	"sao goncalo do amarante": "RN", "macaiba": "RN", "ceara-mirim": "RN",
	"caico": "RN", "ponta negra": "RN",
	// Paraíba
	"joao pessoa": "PB", "pb": "PB", "campina grande": "PB",
	"santa rita": "PB", "patos": "PB", "bayeux": "PB", "cabedelo": "PB",
	"cajazeiras": "PB",
	// Alagoas
	"maceio": "AL", "al": "AL", "arapiraca": "AL", "rio largo": "AL",
	"palmeira dos indios": "AL", "uniao dos palmares": "AL", "penedo": "AL",
	// Sergipe
	"aracaju": "SE", "se": "SE", "nossa senhora do socorro": "SE",
	"lagarto": "SE", "itabaiana": "SE", "sao cristovao": "SE",
	// Piauí
	"teresina": "PI", "pi": "PI", "parnaiba": "PI", "picos": "PI",
	"piripiri": "PI", "floriano": "PI",
	// Tocantins
	"palmas": "TO", "to": "TO", "araguaina": "TO", "gurupi": "TO",
	"porto nacional": "TO",
	// Rondônia
	"porto velho": "RO", "ro": "RO", "ji-parana": "RO", "ji parana": "RO",
	"ariquemes": "RO", "vilhena": "RO",
	// Acre
	"rio branco": "AC", "ac": "AC", "cruzeiro do sul": "AC",
	// Amapá
	"macapa": "AP", "ap": "AP", "santana do amapa": "AP",
	// Roraima
	"boa vista": "RR", "rr": "RR",
}

// dddLocation is the principal city and UF for a phone area code.
type dddLocation struct {
	City  string
	State string
}

var dddToLocation = map[string]dddLocation{
	"11": {"São Paulo", "SP"}, "12": {"São José dos Campos", "SP"},
	"13": {"Santos", "SP"}, "14": {"Bauru", "SP"}, "15": {"Sorocaba", "SP"},
	"16": {"Ribeirão Preto", "SP"}, "17": {"São José do Rio Preto", "SP"},
	"18": {"Presidente Prudente", "SP"}, "19": {"Campinas", "SP"},
	"21": {"Rio de Janeiro", "RJ"}, "22": {"Campos dos Goytacazes", "RJ"},
	"24": {"Volta Redonda", "RJ"},
	"27": {"Vitória", "ES"}, "28": {"Cachoeiro de Itapemirim", "ES"},
	"31": {"Belo Horizonte", "MG"}, "32": {"Juiz de Fora", "MG"},
	"33": {"Governador Valadares", "MG"}, "34": {"Uberlândia", "MG"},
	"35": {"Poços de Caldas", "MG"}, "37": {"Divinópolis", "MG"},
	"38": {"Montes Claros", "MG"},
	"41": {"Curitiba", "PR"}, "42": {"Ponta Grossa", "PR"},
	"43": {"Londrina", "PR"}, "44": {"Maringá", "PR"},
	"45": {"Foz do Iguaçu", "PR"}, "46": {"Pato Branco", "PR"},
	"47": {"Joinville", "SC"}, "48": {"Florianópolis", "SC"},
	"49": {"Chapecó", "SC"},
	"51": {"Porto Alegre", "RS"}, "53": {"Pelotas", "RS"},
	"54": {"Caxias do Sul", "RS"}, "55": {"Santa Maria", "RS"},
	"61": {"Brasília", "DF"}, "62": {"Goiânia", "GO"},
	"63": {"Palmas", "TO"}, "64": {"Rio Verde", "GO"},
	"65": {"Cuiabá", "MT"}, "66": {"Rondonópolis", "MT"},
	"67": {"Campo Grande", "MS"},
	"68": {"Rio Branco", "AC"}, "69": {"Porto Velho", "RO"},
	"71": {"Salvador", "BA"}, "73": {"Ilhéus", "BA"},
	"74": {"Juazeiro", "BA"}, "75": {"Feira de Santana", "BA"},
	"77": {"Vitória da Conquista", "BA"},
	"79": {"Aracaju", "SE"},
	"81": {"Recife", "PE"}, "82": {"Maceió", "AL"},
	"83": {"João Pessoa", "PB"}, "84": {"Natal", "RN"},
	"85": {"Fortaleza", "CE"}, "86": {"Teresina", "PI"},
	"87": {"Petrolina", "PE"}, "88": {"Sobral", "CE"},
	"89": {"Picos", "PI"},
	"91": {"Belém", "PA"}, "92": {"Manaus", "AM"},
	"93": {"Santarém", "PA"}, "94": {"Marabá", "PA"},
	"95": {"Boa Vista", "RR"}, "96": {"Macapá", "AP"},
	"97": {"Coari", "AM"},
	"98": {"São Luís", "MA"}, "99": {"Imperatriz", "MA"},
}
