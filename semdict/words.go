package semdict

import "strings"

// curatedWordText is the shipped Spanish vocabulary: words likely to be typed
// in a poetic or contemplative context plus common everyday words. Kept as a
// whitespace-separated block so it can be curated by hand.
const curatedWordText = `
agua lluvia mar océano río lago gota charco inundación cascada arroyo manantial
rocío humedad vapor niebla llovizna torrente marea ola naufragio sumergir ahogar
sed playa costa profundidad corriente caudal estanque acequia riachuelo diluvio
fuego sol verano desierto fiebre calor llama ardiente incendio brasa horno
sofocante tropical lava ceniza candente quemar hervir sudor caliente calentar
llameante fogata hoguera lumbre volcán erupción fundir derretir abrasar
hielo nieve invierno frío escarcha glaciar congelar helado polar gélido tundra
blanco cristal témpano neblina aliento tiritar páramo ventisca avalancha
viento tormenta huracán ráfaga vendaval ciclón tornado brisa soplar tempestad
borrasca remolino turbulencia oleaje azote silbar rugir grito escape huida
correr caos aullar bramar relinchar explosión estallido estruendo trueno
paz calma reposo jardín respirar lento musgo tranquilo sereno quietud silencio
meditación contemplar descanso suave tibio armonía equilibrio pluma suspiro
cuna abrazo caricia espera pausa paciencia ternura dulzura suavidad delicado
noche sombra oscuro oscuridad olvido profundo cueva ceguera abismo vacío negro
tiniebla penumbra eclipse crepúsculo ocaso apagar enterrar secreto cripta
sótano pozo fondo subterráneo laberinto túnel gruta sepulcro hondura
amanecer luz brillo aurora alba dorado resplandor destello fulgor luminoso
claro radiante centelleo chispa estrella faro espejo reflejo mirada revelación
despertar abrir nacer brillante solar fosforescer llamarada relucir destello
espiga espigar espigadora memoria recuerdo olvido tiempo reloj corazón mano
varda desecho basura obsoleto muerte nacer papa recolectar recoger rescatar
abandonar perder encontrar buscar caminar mirar observar contemplar atender
descartar tirar arrojar dejar soltar liberar volar flotar caer hundirse
crecer brotar florecer marchitar secar morir vivir respirar existir soñar
despertar dormir soñar pensar sentir tocar oler escuchar ver mirar oír
palabra letra texto frase verso poema historia cuento relato narración
escribir leer borrar dibujar pintar trazar marcar grabar inscribir tallar
papel tinta pluma lápiz pincel trazo línea curva punto mancha gota
color rojo azul verde amarillo violeta naranja rosa blanco negro gris
dorado plateado púrpura carmesí turquesa índigo ámbar marfil coral
casa hogar habitación ventana puerta techo pared piso escalera pasillo
calle camino sendero ruta vereda huella paso puente cruce esquina plaza
ciudad pueblo aldea barrio campo pradera bosque selva montaña valle colina
cielo nube horizonte atardecer madrugada mediodía medianoche estación otoño
primavera verano invierno luna sol tierra piedra roca arena polvo barro
hierba flor árbol hoja rama raíz tronco semilla fruto cosecha siembra
pájaro paloma cuervo gaviota búho lechuza gorrión mariposa abeja
perro gato caballo lobo zorro ciervo conejo ratón serpiente pez
persona hombre mujer niño niña anciano anciana madre padre hijo hija
hermano hermana amigo amiga vecino extraño forastero viajero caminante
amor odio miedo esperanza tristeza alegría dolor placer angustia nostalgia
soledad compañía presencia ausencia distancia cercanía lejanía inmensidad
infinito eterno fugaz efímero permanente transitorio momentáneo duradero
grande pequeño alto bajo ancho estrecho largo corto grueso delgado
rápido lento fuerte débil duro blando pesado liviano denso ligero
viejo nuevo antiguo moderno joven gastado roto usado desgastado frágil
bello feo hermoso horrible sublime terrible magnífico miserable
silencio ruido sonido murmullo susurro grito canto melodía ritmo eco
música nota acorde disonancia armonía vibración resonancia frecuencia tono
`

// CuratedWords is the default candidate vocabulary for dictionary builds.
var CuratedWords = strings.Fields(curatedWordText)
