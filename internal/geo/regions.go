package geo

// Carrier reference data: the 48 wilayas with the commune spellings the
// carrier accepts and the default stopdesk station per wilaya. The first
// commune of each list is the wilaya seat, used as the fallback when the
// customer input matches nothing.
var wilayaTable = []Wilaya{
	{ID: 1, Name: "Adrar", StationCode: "1A", Communes: []string{"Adrar", "Reggane", "Timimoun", "Aoulef", "Zaouiet Kounta"}},
	{ID: 2, Name: "Chlef", StationCode: "2A", Communes: []string{"Chlef", "Tenes", "Boukadir", "Oued Fodda", "Ain Merane"}},
	{ID: 3, Name: "Laghouat", StationCode: "3A", Communes: []string{"Laghouat", "Aflou", "Ksar El Hirane", "Hassi Rmel"}},
	{ID: 4, Name: "Oum El Bouaghi", StationCode: "4A", Communes: []string{"Oum El Bouaghi", "Ain Beida", "Ain Mlila", "Ain Kercha"}},
	{ID: 5, Name: "Batna", StationCode: "5A", Communes: []string{"Batna", "Barika", "Merouana", "Arris", "Ain Touta", "Tazoult"}},
	{ID: 6, Name: "Bejaia", StationCode: "6A", Communes: []string{"Bejaia", "Akbou", "Amizour", "El Kseur", "Sidi Aich", "Aokas"}},
	{ID: 7, Name: "Biskra", StationCode: "7A", Communes: []string{"Biskra", "Tolga", "Sidi Okba", "Zeribet El Oued", "Ouled Djellal"}},
	{ID: 8, Name: "Bechar", StationCode: "8A", Communes: []string{"Bechar", "Kenadsa", "Abadla", "Beni Ounif"}},
	{ID: 9, Name: "Blida", StationCode: "9A", Communes: []string{"Blida", "Boufarik", "Larbaa", "Bougara", "Mouzaia", "El Affroun", "Meftah"}},
	{ID: 10, Name: "Bouira", StationCode: "10A", Communes: []string{"Bouira", "Lakhdaria", "Sour El Ghozlane", "Ain Bessem", "Mchedallah"}},
	{ID: 11, Name: "Tamanrasset", StationCode: "11A", Communes: []string{"Tamanrasset", "In Salah", "In Guezzam"}},
	{ID: 12, Name: "Tebessa", StationCode: "12A", Communes: []string{"Tebessa", "Cheria", "Bir El Ater", "El Aouinet", "Ouenza"}},
	{ID: 13, Name: "Tlemcen", StationCode: "13A", Communes: []string{"Tlemcen", "Maghnia", "Remchi", "Ghazaouet", "Sebdou", "Nedroma", "Mansourah"}},
	{ID: 14, Name: "Tiaret", StationCode: "14A", Communes: []string{"Tiaret", "Sougueur", "Frenda", "Ksar Chellala", "Mahdia"}},
	{ID: 15, Name: "Tizi Ouzou", StationCode: "15A", Communes: []string{"Tizi Ouzou", "Azazga", "Draa Ben Khedda", "Draa El Mizan", "Tigzirt", "Ain El Hammam", "Boghni"}},
	{ID: 16, Name: "Alger", StationCode: "16A", Communes: []string{
		"Alger Centre", "Bab El Oued", "El Harrach", "Hussein Dey", "Kouba",
		"Bir Mourad Rais", "Hydra", "El Biar", "Bouzareah", "Dar El Beida",
		"Bab Ezzouar", "Mohammadia", "Bordj El Kiffan", "Rouiba", "Reghaia",
		"Cheraga", "Dely Ibrahim", "Draria", "Birkhadem", "Zeralda",
		"Ain Benian", "Staoueli", "El Achour", "Baraki", "Les Eucalyptus",
	}},
	{ID: 17, Name: "Djelfa", StationCode: "17A", Communes: []string{"Djelfa", "Messaad", "Ain Oussera", "Hassi Bahbah", "El Idrissia"}},
	{ID: 18, Name: "Jijel", StationCode: "18A", Communes: []string{"Jijel", "Taher", "El Milia", "Chekfa", "El Aouana"}},
	{ID: 19, Name: "Setif", StationCode: "19A", Communes: []string{"Setif", "El Eulma", "Ain Oulmene", "Bougaa", "Ain Arnat", "Ain Kebira", "Ain Azel"}},
	{ID: 20, Name: "Saida", StationCode: "20A", Communes: []string{"Saida", "El Hassasna", "Ain El Hadjar", "Youb"}},
	{ID: 21, Name: "Skikda", StationCode: "21A", Communes: []string{"Skikda", "Azzaba", "Collo", "El Harrouch", "Tamalous", "Ramdane Djamel"}},
	{ID: 22, Name: "Sidi Bel Abbes", StationCode: "22A", Communes: []string{"Sidi Bel Abbes", "Telagh", "Sfisef", "Ben Badis", "Ras El Ma"}},
	{ID: 23, Name: "Annaba", StationCode: "23A", Communes: []string{"Annaba", "El Bouni", "El Hadjar", "Sidi Amar", "Berrahal", "Ain Berda"}},
	{ID: 24, Name: "Guelma", StationCode: "24A", Communes: []string{"Guelma", "Oued Zenati", "Bouchegouf", "Heliopolis", "Hammam Debagh"}},
	{ID: 25, Name: "Constantine", StationCode: "25A", Communes: []string{"Constantine", "El Khroub", "Ain Smara", "Hamma Bouziane", "Didouche Mourad", "Zighoud Youcef", "Ali Mendjeli"}},
	{ID: 26, Name: "Medea", StationCode: "26A", Communes: []string{"Medea", "Berrouaghia", "Ksar El Boukhari", "Tablat", "Beni Slimane"}},
	{ID: 27, Name: "Mostaganem", StationCode: "27A", Communes: []string{"Mostaganem", "Ain Nouissy", "Hassi Mameche", "Mesra", "Sidi Ali"}},
	{ID: 28, Name: "M'Sila", StationCode: "28A", Communes: []string{"M'Sila", "Bou Saada", "Sidi Aissa", "Magra", "Ain El Melh"}},
	{ID: 29, Name: "Mascara", StationCode: "29A", Communes: []string{"Mascara", "Mohammadia", "Sig", "Tighennif", "Ghriss"}},
	{ID: 30, Name: "Ouargla", StationCode: "30A", Communes: []string{"Ouargla", "Hassi Messaoud", "Touggourt", "Rouissat", "Ain Beida"}},
	{ID: 31, Name: "Oran", StationCode: "31A", Communes: []string{
		"Oran", "Bir El Djir", "Es Senia", "Arzew", "Ain El Turck",
		"Gdyel", "Oued Tlelat", "Mers El Kebir", "Sidi Chami", "El Kerma",
	}},
	{ID: 32, Name: "El Bayadh", StationCode: "32A", Communes: []string{"El Bayadh", "Bougtoub", "Brezina", "El Abiodh Sidi Cheikh"}},
	{ID: 33, Name: "Illizi", StationCode: "33A", Communes: []string{"Illizi", "Djanet", "In Amenas"}},
	{ID: 34, Name: "Bordj Bou Arreridj", StationCode: "34A", Communes: []string{"Bordj Bou Arreridj", "Ras El Oued", "El Achir", "Medjana", "Mansoura"}},
	{ID: 35, Name: "Boumerdes", StationCode: "35A", Communes: []string{"Boumerdes", "Boudouaou", "Bordj Menaiel", "Dellys", "Khemis El Khechna", "Thenia", "Ouled Moussa"}},
	{ID: 36, Name: "El Tarf", StationCode: "36A", Communes: []string{"El Tarf", "El Kala", "Ben Mhidi", "Dréan", "Bouhadjar"}},
	{ID: 37, Name: "Tindouf", StationCode: "37A", Communes: []string{"Tindouf", "Oum El Assel"}},
	{ID: 38, Name: "Tissemsilt", StationCode: "38A", Communes: []string{"Tissemsilt", "Theniet El Had", "Bordj Bou Naama", "Lardjem"}},
	{ID: 39, Name: "El Oued", StationCode: "39A", Communes: []string{"El Oued", "Guemar", "Debila", "Robbah", "El Meghaier"}},
	{ID: 40, Name: "Khenchela", StationCode: "40A", Communes: []string{"Khenchela", "Kais", "Chechar", "El Hamma"}},
	{ID: 41, Name: "Souk Ahras", StationCode: "41A", Communes: []string{"Souk Ahras", "Sedrata", "Mdaourouch", "Taoura"}},
	{ID: 42, Name: "Tipaza", StationCode: "42A", Communes: []string{"Tipaza", "Kolea", "Hadjout", "Cherchell", "Bou Ismail", "Fouka", "Douaouda"}},
	{ID: 43, Name: "Mila", StationCode: "43A", Communes: []string{"Mila", "Chelghoum Laid", "Ferdjioua", "Tadjenanet", "Grarem Gouga"}},
	{ID: 44, Name: "Ain Defla", StationCode: "44A", Communes: []string{"Ain Defla", "Khemis Miliana", "Miliana", "El Attaf", "Djelida"}},
	{ID: 45, Name: "Naama", StationCode: "45A", Communes: []string{"Naama", "Mecheria", "Ain Sefra", "Sfissifa"}},
	{ID: 46, Name: "Ain Temouchent", StationCode: "46A", Communes: []string{"Ain Temouchent", "Beni Saf", "Hammam Bou Hadjar", "El Malah", "El Amria"}},
	{ID: 47, Name: "Ghardaia", StationCode: "47A", Communes: []string{"Ghardaia", "Metlili", "El Guerrara", "Berriane", "Bounoura"}},
	{ID: 48, Name: "Relizane", StationCode: "48A", Communes: []string{"Relizane", "Oued Rhiou", "Mazouna", "Zemmora", "Ammi Moussa"}},
}
