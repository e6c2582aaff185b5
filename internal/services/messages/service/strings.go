package service

// catalogs holds every translated template, keyed by base language then key.
// Placeholders follow fmt verbs and must agree across languages.
var catalogs = map[string]map[string]string{
	"en": {
		"cmd.unknown":                "Unknown command %q. Try the help command.",
		"cmd.server_not_monitored":   "This server is not monitored, commands are unavailable here.",
		"cmd.not_admin":              "You are not allowed to run administrative commands.",
		"cmd.not_registered":         "You need to register an account before using commands.",
		"cmd.admin_no_identity":      "Administrative commands require an account with a recorded identity.",
		"cmd.failed":                 "The command could not be completed, please try again later.",
		"cmd.update.invalid_target":  "Could not understand the target %q.",
		"cmd.update.role_not_found":  "No role named %q exists on this server.",
		"cmd.update.processing":      "Updating roles for %d member(s), this may take a while.",
		"cmd.count.result":           "That target covers %d member(s).",
		"cmd.lang.help":              "Usage: lang <code>. Supported languages: en, fr.",
		"cmd.lang.set":               "Your language is now %q.",
		"cmd.lang.unknown":           "Language %q is not supported.",
		"cmd.help":                   "Available commands: %supdate, %[1]scount, %[1]slang, %[1]shelp.",
		"adv.banned":                 "You are banned from this service.",
		"adv.idp_banned":             "This identity is banned and cannot be linked.",
		"adv.idp_already_linked":     "This identity is already linked to another account.",
		"adv.discord_already_exists": "This chat account is already registered.",
		"reg.incomplete":             "Your registration is missing a step.",
	},
	"fr": {
		"cmd.unknown":                "Commande inconnue %q. Essayez la commande help.",
		"cmd.server_not_monitored":   "Ce serveur n'est pas surveillé, les commandes ne sont pas disponibles ici.",
		"cmd.not_admin":              "Vous n'êtes pas autorisé à exécuter des commandes d'administration.",
		"cmd.not_registered":         "Vous devez créer un compte avant d'utiliser les commandes.",
		"cmd.admin_no_identity":      "Les commandes d'administration nécessitent un compte avec une identité enregistrée.",
		"cmd.failed":                 "La commande n'a pas pu aboutir, veuillez réessayer plus tard.",
		"cmd.update.invalid_target":  "Impossible de comprendre la cible %q.",
		"cmd.update.role_not_found":  "Aucun rôle nommé %q n'existe sur ce serveur.",
		"cmd.update.processing":      "Mise à jour des rôles de %d membre(s), cela peut prendre du temps.",
		"cmd.count.result":           "Cette cible couvre %d membre(s).",
		"cmd.lang.help":              "Usage : lang <code>. Langues disponibles : en, fr.",
		"cmd.lang.set":               "Votre langue est maintenant %q.",
		"cmd.lang.unknown":           "La langue %q n'est pas disponible.",
		"cmd.help":                   "Commandes disponibles : %supdate, %[1]scount, %[1]slang, %[1]shelp.",
		"adv.banned":                 "Vous êtes banni de ce service.",
		"adv.idp_banned":             "Cette identité est bannie et ne peut pas être liée.",
		"adv.idp_already_linked":     "Cette identité est déjà liée à un autre compte.",
		"adv.discord_already_exists": "Ce compte de discussion est déjà enregistré.",
		"reg.incomplete":             "Votre inscription est incomplète.",
	},
}
